package menu

import (
	"fmt"
	"strings"
	"time"

	"weekly-menu/internal/domain/entity"
	"weekly-menu/internal/infra/llm"
)

// SystemPrompt sets the planner persona.
const SystemPrompt = "あなたは経験豊富な日本の家庭料理の献立プランナーです。バランスの取れた美味しい献立を作成することが得意です。"

const maxPromptSites = 3

// BuildPrompt renders the conditions, requirements and output format for one week.
func BuildPrompt(s entity.MenuSettings, weekStart time.Time) llm.Prompt {
	var b strings.Builder
	date := entity.FormatJapaneseDate(weekStart)

	fmt.Fprintf(&b, "あなたは日本の家庭料理の献立プランナーです。%s（月曜日）から始まる週の夕食献立を作成してください。\n\n", date)

	b.WriteString("## 条件:\n")
	fmt.Fprintf(&b, "- 必要日数: %d日分\n", s.DaysNeeded)
	fmt.Fprintf(&b, "- 外泊日: %s\n", orNone(awayDayNames(s.AwayDays)))
	fmt.Fprintf(&b, "- 避けたい食材: %s\n", orNone(s.AvoidIngredients))
	fmt.Fprintf(&b, "- 最大調理時間: %d分\n", s.MaxCookingTime)
	sites := s.PriorityRecipeSites
	if len(sites) > maxPromptSites {
		sites = sites[:maxPromptSites]
	}
	fmt.Fprintf(&b, "- 優先レシピサイト: %s\n", strings.Join(sites, ", "))
	if len(s.DietaryPreferences) > 0 {
		fmt.Fprintf(&b, "- 食事制限: %s\n", strings.Join(s.DietaryPreferences, ", "))
	}
	if s.SpecialMemo != "" {
		fmt.Fprintf(&b, "- 特記事項: %s\n", s.SpecialMemo)
	}
	if s.GuestsExpected > 0 {
		fmt.Fprintf(&b, "- 来客予定: %d名\n", s.GuestsExpected)
	}
	if len(s.SpecialOccasions) > 0 {
		fmt.Fprintf(&b, "- 特別な予定: %s\n", strings.Join(s.SpecialOccasions, ", "))
	}

	b.WriteString(`
## 要求事項:
1. 月曜日から日曜日までの7日間で表示
2. 外泊日は「外食・外泊」と表示
3. 必要日数が7日未満の場合、残りの日は「お休み」と表示
4. 各料理に調理時間（分）を記載
5. 栄養バランスを考慮し、連日同じような料理は避ける
6. 日本の一般的な家庭料理を中心に
7. 可能な範囲で指定レシピサイトで見つかりそうな料理を選ぶ

## 出力形式:
` + "```\n")
	fmt.Fprintf(&b, "### %s週の夕食献立\n\n", date)
	for i := 0; i < 2; i++ {
		day := weekStart.AddDate(0, 0, i)
		fmt.Fprintf(&b, "**%s (%s)**\n- 料理名 (調理時間: XX分)\n\n", entity.DayName(i), day.Format("01/02"))
	}
	b.WriteString("[以下同様に日曜日まで]\n```\n\n")
	b.WriteString("栄養バランスとバラエティを重視し、美味しそうな献立を作成してください。\n")

	return llm.Prompt{System: SystemPrompt, User: b.String()}
}

func awayDayNames(days []int) []string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, entity.DayName(d))
	}
	return names
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "なし"
	}
	return strings.Join(items, ", ")
}
