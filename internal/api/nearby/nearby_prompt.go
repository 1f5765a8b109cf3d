package nearby

import "fmt"

const systemInstruction = "You are a local guide expert. Recommend great places nearby within specific radius. Always use NT$ for currency."

// GetNearbyPrompt renders a location query and radius band into the
// instruction sent to the model. Pure function of its inputs; location may be
// free text or a "latitude X, longitude Y" coordinate string.
func GetNearbyPrompt(location, radius string) string {
	return fmt.Sprintf(`
    請推薦位於或靠近 "%s" 且距離在「%s」範圍內的 5 個美食餐廳和 5 個熱門景點/活動。

    需求：
    1. 地點必須盡量符合指定的距離範圍 (%s)。如果是步行距離(如100m, 300m)，請推薦非常鄰近的店家。
    2. 包含當地人推薦的隱藏寶石和必去地點。
    3. 提供具體的地址或街道名稱。
    4. 預估價格請務必使用新台幣 (NT$)。
    5. 評分請基於一般網路評價估算。
    6. 請用繁體中文回答。
`, location, radius, radius)
}
