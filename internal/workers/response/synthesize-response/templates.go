package synthesizeresponse

// Template pools.
const (
	PoolNoResults       = "no_results"
	PoolSingleResult    = "single_result"
	PoolMultipleResults = "multiple_results"
	PoolPriceFocus      = "price_focus"
	PoolQualityFocus    = "quality_focus"
	PoolGreeting        = "greeting"
	PoolFarewell        = "farewell"
	PoolHelp            = "help"
	PoolSearchIntent    = "search_intent"
	PoolUnknown         = "unknown"
)

// Apology replaces any response that could not be rendered.
const Apology = "申し訳ございません。エラーが発生しました。"

func defaultTemplates() map[string][]string {
	return map[string][]string{
		PoolNoResults: {
			"申し訳ございません。条件に合う商品が見つかりませんでした。別のキーワードや条件で検索してみてください。",
			"該当する商品が見つかりませんでした。価格帯やカテゴリを変更して再度お試しください。",
			"検索結果が0件でした。より一般的なキーワードで検索してみてください。",
		},
		PoolSingleResult: {
			"見つかった商品をご紹介します。",
			"条件に合う商品を1件見つけました。",
			"検索結果をご確認ください。",
		},
		PoolMultipleResults: {
			"検索結果をご紹介します。",
			"条件に合う商品を複数見つけました。",
			"お探しの商品が見つかりました。",
		},
		PoolPriceFocus: {
			"価格を重視した商品をご紹介します。",
			"お得な商品をピックアップしました。",
			"コストパフォーマンスの良い商品です。",
		},
		PoolQualityFocus: {
			"品質を重視した商品をご紹介します。",
			"高評価の商品をピックアップしました。",
			"信頼できる商品です。",
		},
		PoolGreeting: {
			"こんにちは！お買い物エージェントです。何かお探しの商品はありますか？",
			"はじめまして！買い物のお手伝いをさせていただきます。何かご質問はありますか？",
			"こんにちは！商品検索のお手伝いをいたします。何をお探しでしょうか？",
		},
		PoolFarewell: {
			"ありがとうございました。また何かございましたらお気軽にお声かけください。",
			"お疲れ様でした。またのご利用をお待ちしております。",
			"ご利用ありがとうございました。何かありましたらいつでもどうぞ。",
		},
		PoolHelp: {
			"使い方についてご説明いたします。商品名やカテゴリを教えていただければ、最適な商品をご提案いたします。",
			"サポートいたします。商品検索、価格比較、お気に入り登録など、様々な機能をご利用いただけます。",
			"ご質問にお答えします。商品の詳細情報、レビュー、価格比較など、お買い物に役立つ情報をお届けします。",
		},
		PoolSearchIntent: {
			"商品検索を開始いたします。より詳しい情報を教えていただけますか？",
			"検索いたします。価格帯やブランドなど、ご希望があればお聞かせください。",
			"商品をお探ししますね。どのような商品をお考えでしょうか？",
		},
		PoolUnknown: {
			"申し訳ございません。もう少し詳しく教えていただけますか？",
			"ご質問の内容を理解できませんでした。別の表現でお聞かせください。",
			"すみません、もう一度お聞かせいただけますでしょうか？",
		},
	}
}
