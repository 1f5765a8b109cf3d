package itinerary

import (
	"fmt"
	"strings"

	"github.com/voyageai/go-trip-planner/internal/types"
)

const systemInstruction = "You are an expert travel planner (旅遊規劃專家). Always respond in Traditional Chinese (Taiwan usage). Provide structured JSON output."

// noneSentinel renders omitted optional preference fields explicitly so the
// model does not infer a value for them.
const noneSentinel = "無"

func orNone(v string) string {
	if strings.TrimSpace(v) == "" {
		return noneSentinel
	}
	return v
}

// GetItineraryPrompt renders submitted preferences into the instruction block
// sent to the model. Pure function: identical preferences yield identical
// prompt text.
func GetItineraryPrompt(prefs types.UserPreferences) string {
	interests := noneSentinel
	if len(prefs.Interests) > 0 {
		interests = strings.Join(prefs.Interests, ", ")
	}
	return fmt.Sprintf(`
    我需要一個從 %s 出發、前往 %s 的旅遊行程規劃。
    天數: %d 天
    總預算: NT$%d
    旅遊風格: %s
    旅伴: %s
    交通偏好: %s
    飲食限制: %s
    特殊需求: %s
    特別興趣: %s

    請先單獨估算來回交通費用 (estimatedTransportCost)，再從總預算中扣除交通費用，據此分配每日可花費的金額。
    請生成一個詳細的每日行程，包括時間、地點、活動描述、活動類型和預估費用。
    請優先推薦真實存在、有名稱的店家與景點。
    請用繁體中文回答 (Traditional Chinese)。
    所有價格請使用新台幣 (NT$) 估算。
    確保內容豐富且邏輯通順，考慮交通時間。
    只回傳符合指定結構的 JSON，不要附加任何其他文字。
`, prefs.Origin, prefs.Destination, prefs.Duration, prefs.BudgetAmount,
		orNone(prefs.TravelStyle), orNone(prefs.Companions), orNone(prefs.TransportPreference),
		orNone(prefs.DietaryRestrictions), orNone(prefs.SpecialRequests), interests)
}
