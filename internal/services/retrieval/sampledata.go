package retrieval

import "github.com/dataplug/copilot-service/internal/core/vectorstore"

// SampleDocuments returns the demo corpus: favorite spots, stated
// preferences and visit history for one fictional user.
func SampleDocuments() []vectorstore.Document {
	return []vectorstore.Document{
		{
			ID:   "spot_001",
			Text: "Blue Bottle Coffee 清澄白河: 静かで落ち着いた雰囲気のカフェ。コーヒーの品質が高く、ゆっくり作業できる。 タグ: カフェ, コーヒー, 静か, 作業向け",
			Metadata: vectorstore.DocumentMetadata{
				PlaceName:  "Blue Bottle Coffee 清澄白河",
				Address:    "東京都江東区平野1-4-8",
				Impression: "静かで落ち着いた雰囲気。ゆっくり作業できる。",
				Category:   "favorite_spot",
				Tags:       []string{"カフェ", "コーヒー", "静か", "作業向け"},
				Rating:     4.5,
			},
		},
		{
			ID:   "spot_002",
			Text: "代々木公園: 都心にある広大な公園。自然を楽しめる。散歩やピクニックに最適。 タグ: 公園, 自然, 散歩, リラックス",
			Metadata: vectorstore.DocumentMetadata{
				PlaceName:  "代々木公園",
				Address:    "東京都渋谷区代々木神園町2-1",
				Impression: "自然を楽しめる。散歩やピクニックに最適。",
				Category:   "favorite_spot",
				Tags:       []string{"公園", "自然", "散歩", "リラックス"},
				Rating:     4.3,
			},
		},
		{
			ID:   "spot_003",
			Text: "森美術館: 六本木ヒルズにある現代アート美術館。展望台も併設。 タグ: 美術館, アート, 展望台, 六本木",
			Metadata: vectorstore.DocumentMetadata{
				PlaceName:  "森美術館",
				Address:    "東京都港区六本木6-10-1",
				Impression: "刺激的な現代アートが楽しめる。",
				Category:   "favorite_spot",
				Tags:       []string{"美術館", "アート", "展望台", "六本木"},
				Rating:     4.4,
			},
		},
		{
			ID:   "spot_004",
			Text: "築地場外市場: 新鮮な海鮮や食材が楽しめる市場。朝食や食べ歩きに人気。 タグ: 市場, 海鮮, グルメ, 朝食",
			Metadata: vectorstore.DocumentMetadata{
				PlaceName:  "築地場外市場",
				Address:    "東京都中央区築地4-16-2",
				Impression: "新鮮な海鮮が楽しめる。食べ歩きに人気。",
				Category:   "favorite_spot",
				Tags:       []string{"市場", "海鮮", "グルメ", "朝食"},
				Rating:     4.2,
			},
		},
		{
			ID:   "spot_005",
			Text: "井の頭恩賜公園: 吉祥寺にある人気の公園。池でボートも楽しめる。 タグ: 公園, 自然, ボート, 吉祥寺",
			Metadata: vectorstore.DocumentMetadata{
				PlaceName:  "井の頭恩賜公園",
				Address:    "東京都武蔵野市御殿山1-18-31",
				Impression: "池でボートも楽しめる。",
				Category:   "favorite_spot",
				Tags:       []string{"公園", "自然", "ボート", "吉祥寺"},
				Rating:     4.4,
			},
		},
		{
			ID:       "pref_001",
			Text:     "静かな場所が好き。騒がしいところは苦手。",
			Metadata: vectorstore.DocumentMetadata{Category: "preference", Tags: []string{"atmosphere"}},
		},
		{
			ID:       "pref_002",
			Text:     "コーヒーが好き。特に浅煎りのスペシャルティコーヒーを好む。",
			Metadata: vectorstore.DocumentMetadata{Category: "preference", Tags: []string{"food"}},
		},
		{
			ID:       "pref_003",
			Text:     "自然の中でリラックスするのが好き。緑が多い場所を好む。",
			Metadata: vectorstore.DocumentMetadata{Category: "preference", Tags: []string{"environment"}},
		},
		{
			ID:       "pref_004",
			Text:     "アートや文化的な体験を楽しむのが好き。",
			Metadata: vectorstore.DocumentMetadata{Category: "preference", Tags: []string{"interest"}},
		},
		{
			ID:       "pref_005",
			Text:     "混雑を避けたい。平日や早朝を好む。",
			Metadata: vectorstore.DocumentMetadata{Category: "preference", Tags: []string{"timing"}},
		},
		{
			ID:   "history_001",
			Text: "先週Blue Bottle Coffeeで2時間作業した。とても集中できた。",
			Metadata: vectorstore.DocumentMetadata{
				PlaceName:  "Blue Bottle Coffee 清澄白河",
				Impression: "とても集中できた。",
				Category:   "history",
			},
		},
		{
			ID:   "history_002",
			Text: "先月代々木公園でピクニックをした。天気が良くて気持ちよかった。",
			Metadata: vectorstore.DocumentMetadata{
				PlaceName:  "代々木公園",
				Impression: "天気が良くて気持ちよかった。",
				Category:   "history",
			},
		},
		{
			ID:   "history_003",
			Text: "森美術館で現代アート展を鑑賞。刺激的な展示だった。",
			Metadata: vectorstore.DocumentMetadata{
				PlaceName:  "森美術館",
				Impression: "刺激的な展示だった。",
				Category:   "history",
			},
		},
	}
}
