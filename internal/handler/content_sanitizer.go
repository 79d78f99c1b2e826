package handler

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// 富文本编辑器会输出 ql-* 排版类名与 base64 内联图片。
var editorClassPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(?: [A-Za-z0-9_-]+)*$`)

func buildContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	policy.AllowAttrs("class").Matching(editorClassPattern).Globally()
	policy.AllowAttrs("spellcheck").Matching(regexp.MustCompile(`^(true|false)$`)).OnElements("pre")
	return policy
}

func (a *API) sanitizeContent(content string) string {
	if content == "" {
		return ""
	}
	return a.sanitizer.Sanitize(content)
}
