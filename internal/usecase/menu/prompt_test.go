package menu_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"weekly-menu/internal/domain/entity"
	"weekly-menu/internal/usecase/menu"
)

func baseSettings() entity.MenuSettings {
	return entity.MenuSettings{
		DaysNeeded:          5,
		AwayDays:            []int{5, 6},
		AvoidIngredients:    []string{"セロリ", "パクチー"},
		MaxCookingTime:      45,
		PriorityRecipeSites: []string{"cookpad.com", "kurashiru.com", "delishkitchen.tv", "recipe.rakuten.co.jp"},
	}
}

func TestBuildPrompt(t *testing.T) {
	p := menu.BuildPrompt(baseSettings(), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, menu.SystemPrompt, p.System)
	for _, want := range []string{
		"2024年01月15日（月曜日）から始まる週の夕食献立",
		"- 必要日数: 5日分\n",
		"- 外泊日: 土曜日, 日曜日\n",
		"- 避けたい食材: セロリ, パクチー\n",
		"- 最大調理時間: 45分\n",
		"- 優先レシピサイト: cookpad.com, kurashiru.com, delishkitchen.tv\n",
		"3. 必要日数が7日未満の場合、残りの日は「お休み」と表示",
		"### 2024年01月15日週の夕食献立",
		"**月曜日 (01/15)**\n- 料理名 (調理時間: XX分)",
		"**火曜日 (01/16)**",
	} {
		assert.Contains(t, p.User, want)
	}
	assert.NotContains(t, p.User, "recipe.rakuten.co.jp")
	assert.NotContains(t, p.User, "食事制限")
	assert.NotContains(t, p.User, "来客予定")
}

func TestBuildPrompt_OptionalConditions(t *testing.T) {
	s := baseSettings()
	s.AwayDays = nil
	s.AvoidIngredients = nil
	s.DietaryPreferences = []string{"低塩"}
	s.SpecialMemo = "金曜日は手巻き寿司"
	s.GuestsExpected = 2
	s.SpecialOccasions = []string{"誕生日"}

	p := menu.BuildPrompt(s, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, p.User, "- 外泊日: なし\n")
	assert.Contains(t, p.User, "- 避けたい食材: なし\n")
	assert.Contains(t, p.User, "- 食事制限: 低塩\n")
	assert.Contains(t, p.User, "- 特記事項: 金曜日は手巻き寿司\n")
	assert.Contains(t, p.User, "- 来客予定: 2名\n")
	assert.Contains(t, p.User, "- 特別な予定: 誕生日\n")
	assert.True(t, strings.HasSuffix(p.User, "美味しそうな献立を作成してください。\n"))
}
