package ai

import (
	"regexp"
	"strings"
	"unicode"

	openai "github.com/sashabaranov/go-openai"
)

const (
	LangArabic  = "ar"
	LangEnglish = "en"

	DefaultGreeting = "Hello Tanky!"
)

const personaBase = `You are Tanky, a friendly aquarium assistant for MyTankScape.
Give short, practical answers about fishkeeping, aquarium gear, water care and tank maintenance.
If a question has nothing to do with aquariums, politely bring the conversation back to fishkeeping.`

const bilingualPrompt = personaBase + `
Reply in the same language the user writes in: Arabic (العربية) or English.
If the user writes in Arabic, answer only in Arabic. Otherwise answer in English.`

const imageAnalysisPrompt = `
The user attached a photo of their aquarium. Look at it carefully and describe:
- the fish species you can identify;
- water clarity;
- tank cleanliness;
- any visible issues (algae, signs of disease, overcrowding, equipment problems).
Then give practical advice based on what you see.`

var dataURIPrefix = regexp.MustCompile(`^data:[a-zA-Z0-9.+/-]*(;[a-zA-Z0-9=.+-]+)*;base64,`)

// arabicBlocks: Arabic, Arabic Supplement, Arabic Extended-A и презентационные формы A/B.
// Блоки целиком, включая знаки препинания и огласовки, которые unicode.Arabic относит к Common/Inherited.
var arabicBlocks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0600, Hi: 0x06FF, Stride: 1},
		{Lo: 0x0750, Hi: 0x077F, Stride: 1},
		{Lo: 0x08A0, Hi: 0x08FF, Stride: 1},
		{Lo: 0xFB50, Hi: 0xFDFF, Stride: 1},
		{Lo: 0xFE70, Hi: 0xFEFF, Stride: 1},
	},
}

// Prompt: всё, что уходит в модель по одному запросу
type Prompt struct {
	System       string
	UserText     string
	ImageURL     string
	Lang         string
	LangExplicit bool
}

func (p Prompt) HasImage() bool {
	return p.ImageURL != ""
}

// Assemble never fails: missing fields are replaced with defaults.
func Assemble(req ChatRequest) Prompt {
	userText := latestUserText(req.Messages)
	lang, explicit := ResolveLang(req.Lang, userText)

	p := Prompt{
		UserText:     userText,
		Lang:         lang,
		LangExplicit: explicit,
	}

	if strings.TrimSpace(req.Image) != "" {
		p.ImageURL = NormalizeImage(req.Image)
	}

	if explicit {
		p.System = personaPrompt(lang)
	} else {
		p.System = bilingualPrompt
		if p.HasImage() {
			p.System += "\n" + imageAnalysisPrompt
		}
	}

	return p
}

// Messages builds the upstream list: one system message and one user message.
// Earlier turns are not replayed.
func (p Prompt) Messages() []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: p.System},
	}

	if !p.HasImage() {
		return append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: p.UserText,
		})
	}

	return append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: p.UserText},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: p.ImageURL},
			},
		},
	})
}

func latestUserText(turns []Turn) string {
	if len(turns) == 0 {
		return DefaultGreeting
	}
	text := strings.TrimSpace(turns[len(turns)-1].Content.String())
	if text == "" {
		return DefaultGreeting
	}
	return text
}

// ResolveLang prefers an explicit hint; otherwise it detects Arabic script in text.
func ResolveLang(hint, text string) (lang string, explicit bool) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint != "" {
		if hint == LangArabic {
			return LangArabic, true
		}
		return LangEnglish, true
	}
	return DetectLang(text), false
}

func DetectLang(text string) string {
	for _, r := range text {
		if unicode.Is(arabicBlocks, r) {
			return LangArabic
		}
	}
	return LangEnglish
}

// NormalizeImage strips any data URI prefix and re-wraps the payload as image/png.
func NormalizeImage(raw string) string {
	payload := dataURIPrefix.ReplaceAllString(strings.TrimSpace(raw), "")
	return "data:image/png;base64," + payload
}

func personaPrompt(lang string) string {
	if lang == LangArabic {
		return personaBase + "\nAlways answer in Arabic (العربية)."
	}
	return personaBase + "\nAlways answer in English."
}
