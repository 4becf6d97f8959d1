package ai

import "strings"

const (
	fallbackImageAR = "لم أتمكن من تحليل الصورة بوضوح 🐠 هل يمكنك إرسال صورة أوضح لحوضك؟"
	fallbackImageEN = "I couldn't analyze the photo clearly 🐠 Could you send a clearer picture of your tank?"
	fallbackTextAR  = "عذراً، لم أتمكن من الإجابة الآن 🐠 هل يمكنك إعادة صياغة سؤالك؟"
	fallbackTextEN  = "Sorry, I couldn't come up with an answer 🐠 Could you rephrase your question?"
)

func FallbackReply(hasImage bool, lang string) string {
	switch {
	case hasImage && lang == LangArabic:
		return fallbackImageAR
	case hasImage:
		return fallbackImageEN
	case lang == LangArabic:
		return fallbackTextAR
	}
	return fallbackTextEN
}

// ExtractReply trims the model output and substitutes a fallback when nothing is left.
func ExtractReply(content string, hasImage bool, lang string) string {
	if reply := strings.TrimSpace(content); reply != "" {
		return reply
	}
	return FallbackReply(hasImage, lang)
}
