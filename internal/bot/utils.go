package bot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/chirchiq/estate-bot/internal/model"
)

func formatReplyText(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

// parseCommand splits "/cmd@botname arg1 arg2" into "/cmd" and its args.
func parseCommand(s string) (string, []string) {
	parts := strings.Split(s, " ")
	command, _, _ := strings.Cut(parts[0], "@")
	return command, parts[1:]
}

// escapeMarkdown escapes special characters for Telegram Markdown V1
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "*", "\\*")
	text = strings.ReplaceAll(text, "_", "\\_")
	text = strings.ReplaceAll(text, "`", "\\`")
	text = strings.ReplaceAll(text, "[", "\\[")
	return text
}

// formatMoney renders 1500000 as "1 500 000 UZS". Cents are shown only when
// present.
func formatMoney(amount float64, currency string) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole, frac := cents/100, cents%100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	if amount < 0 && cents > 0 {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(d)
	}
	if frac > 0 {
		fmt.Fprintf(&b, ".%02d", frac)
	}
	if currency != "" {
		b.WriteByte(' ')
		b.WriteString(strings.ToUpper(currency))
	}
	return b.String()
}

const dateLayout = "02.01.2006"

// truncateRunes cuts s to at most limit characters, marking the cut with an
// ellipsis.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

// languageFromCode maps a Telegram IETF language tag to a supported language.
func languageFromCode(code string) (model.Language, bool) {
	base, _, _ := strings.Cut(strings.ToLower(code), "-")
	lang := model.Language(base)
	return lang, lang.Valid()
}
