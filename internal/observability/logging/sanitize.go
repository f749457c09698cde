package logging

import (
	"regexp"
)

// 注意: より具体的なパターンから適用する
var secretPatterns = []struct {
	re   *regexp.Regexp
	mask string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-_]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9\-_]{10,}`), "sk-****"},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{20,}`), "AIza****"},
	{regexp.MustCompile(`github_pat_[0-9A-Za-z_]{20,}`), "github_pat_****"},
	{regexp.MustCompile(`gh[pousr]_[0-9A-Za-z]{20,}`), "gh*_****"},
	{regexp.MustCompile(`(secret|ntn)_[0-9A-Za-z]{20,}`), "${1}_****"},
	{regexp.MustCompile(`(hooks\.slack\.com/services/)[^\s"']+`), "${1}****"},
	{regexp.MustCompile(`(discord(?:app)?\.com/api/webhooks/\d+/)[^\s"']+`), "${1}****"},
	{regexp.MustCompile(`(?i)(bearer\s+)[^\s"']+`), "${1}****"},
}

// SanitizeError returns err's message with API keys, tokens and webhook
// secrets masked. A nil error yields "".
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}

// Sanitize masks secrets in msg.
func Sanitize(msg string) string {
	for _, p := range secretPatterns {
		msg = p.re.ReplaceAllString(msg, p.mask)
	}
	return msg
}
