package corpus

import "hyakuninquiz/internal/models"

// Fallback returns the built-in sample used when no corpus file is available
func Fallback() []models.Poem {
	return []models.Poem{
		{
			ID:           1,
			Author:       "天智天皇",
			Upper:        "秋の田の かりほの庵の 苫をあらみ",
			Lower:        "わが衣手は 露にぬれつつ",
			ReadingUpper: "あきのたの かりほのいほの とまをあらみ",
			ReadingLower: "わがころもでは つゆにぬれつつ",
			Description:  "稲刈り期の仮小屋での体験を詠んだ歌",
		},
		{
			ID:           2,
			Author:       "持統天皇",
			Upper:        "春過ぎて 夏来にけらし 白妙の",
			Lower:        "衣ほすてふ 天の香具山",
			ReadingUpper: "はるすぎて なつきにけらし しろたえの",
			ReadingLower: "ころもほすてふ あまのかぐやま",
			Description:  "季節の移ろいを香具山の情景で詠んだ歌",
		},
		{
			ID:           3,
			Author:       "柿本人麻呂",
			Upper:        "あしびきの 山鳥の尾の しだり尾の",
			Lower:        "ながながし夜を ひとりかも寝む",
			ReadingUpper: "あしびきの やまどりのおの しだりおの",
			ReadingLower: "ながながしよを ひとりかもねむ",
			Description:  "長い夜の孤独を山鳥の尾に例えた恋歌",
		},
		{
			ID:           4,
			Author:       "山部赤人",
			Upper:        "田子の浦に うち出でて見れば 白妙の",
			Lower:        "富士の高嶺に 雪は降りつつ",
			ReadingUpper: "たごのうらに うちいでてみれば しろたえの",
			ReadingLower: "ふじのたかねに ゆきはふりつつ",
			Description:  "田子の浦から望む富士の嶺に、雪がしきりに降る清澄の景",
		},
		{
			ID:           5,
			Author:       "猿丸太夫",
			Upper:        "奥山に もみぢ踏み分け 鳴く鹿の",
			Lower:        "声聞く時ぞ 秋は悲しき",
			ReadingUpper: "おくやまに もみぢふみわけ なくしかの",
			ReadingLower: "こえきくときぞ あきはかなしき",
			Description:  "奥山で鹿の声を聞く瞬間、秋の寂寥が胸に満ちる",
		},
	}
}
