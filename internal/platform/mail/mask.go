package mail

import "strings"

// MaskAddress はログ出力用にメールアドレスのローカル部を伏せます。
// 例: "alice@example.com" -> "a***@example.com"
func MaskAddress(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at <= 0 {
		return "***"
	}
	return addr[:1] + "***" + addr[at:]
}
