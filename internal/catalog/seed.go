package catalog

import "shopping-agent/internal/models"

// SeedProducts returns the built-in demo catalog.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "phone_001",
			Name:        "iPhone 15",
			Price:       120000,
			Description: "最新のiPhone 15。高性能カメラと長いバッテリーライフを搭載。",
			Category:    "electronics",
			Subcategory: "smartphone",
			Brand:       "Apple",
			Rating:      4.8,
			ReviewCount: 1250,
			ImageURL:    "https://via.placeholder.com/300x300?text=iPhone+15",
			Features:    []string{"5G", "wireless", "waterproof"},
			Stores: []models.Store{
				{Name: "Apple Store", Price: 120000, Shipping: 0},
				{Name: "楽天市場", Price: 118000, Shipping: 500},
				{Name: "Amazon", Price: 119000, Shipping: 0},
			},
		},
		{
			ID:          "phone_002",
			Name:        "Samsung Galaxy S24",
			Price:       110000,
			Description: "Samsungの最新フラッグシップ。高性能プロセッサと美しいディスプレイ。",
			Category:    "electronics",
			Subcategory: "smartphone",
			Brand:       "Samsung",
			Rating:      4.6,
			ReviewCount: 890,
			ImageURL:    "https://via.placeholder.com/300x300?text=Galaxy+S24",
			Features:    []string{"5G", "wireless", "waterproof"},
			Stores: []models.Store{
				{Name: "Samsung Store", Price: 110000, Shipping: 0},
				{Name: "楽天市場", Price: 108000, Shipping: 500},
				{Name: "Amazon", Price: 109000, Shipping: 0},
			},
		},
		{
			ID:          "laptop_001",
			Name:        "MacBook Air M2",
			Price:       180000,
			Description: "軽量で高性能なMacBook Air。M2チップ搭載で長時間バッテリー。",
			Category:    "electronics",
			Subcategory: "laptop",
			Brand:       "Apple",
			Rating:      4.9,
			ReviewCount: 2100,
			ImageURL:    "https://via.placeholder.com/300x300?text=MacBook+Air",
			Features:    []string{"lightweight", "wireless", "high_speed"},
			Stores: []models.Store{
				{Name: "Apple Store", Price: 180000, Shipping: 0},
				{Name: "楽天市場", Price: 178000, Shipping: 500},
				{Name: "Amazon", Price: 179000, Shipping: 0},
			},
		},
		{
			ID:          "laptop_002",
			Name:        "Dell XPS 13",
			Price:       160000,
			Description: "ビジネス向けの高性能ノートPC。軽量で持ち運びやすい。",
			Category:    "electronics",
			Subcategory: "laptop",
			Brand:       "Dell",
			Rating:      4.5,
			ReviewCount: 750,
			ImageURL:    "https://via.placeholder.com/300x300?text=Dell+XPS+13",
			Features:    []string{"lightweight", "compact", "high_speed"},
			Stores: []models.Store{
				{Name: "Dell Store", Price: 160000, Shipping: 0},
				{Name: "楽天市場", Price: 158000, Shipping: 500},
				{Name: "Amazon", Price: 159000, Shipping: 0},
			},
		},
		{
			ID:          "clothing_001",
			Name:        "Nike Air Max 270",
			Price:       15000,
			Description: "快適な履き心地のNikeスニーカー。スタイリッシュなデザイン。",
			Category:    "clothing",
			Subcategory: "shoes",
			Brand:       "Nike",
			Rating:      4.7,
			ReviewCount: 3200,
			ImageURL:    "https://via.placeholder.com/300x300?text=Nike+Air+Max",
			Features:    []string{"comfortable", "stylish", "lightweight"},
			Stores: []models.Store{
				{Name: "Nike Store", Price: 15000, Shipping: 0},
				{Name: "楽天市場", Price: 14800, Shipping: 500},
				{Name: "Amazon", Price: 14900, Shipping: 0},
			},
		},
		{
			ID:          "clothing_002",
			Name:        "Uniqlo ダウンジャケット",
			Price:       8000,
			Description: "軽量で暖かいダウンジャケット。シンプルで使いやすいデザイン。",
			Category:    "clothing",
			Subcategory: "jacket",
			Brand:       "Uniqlo",
			Rating:      4.4,
			ReviewCount: 5600,
			ImageURL:    "https://via.placeholder.com/300x300?text=Uniqlo+Down",
			Features:    []string{"lightweight", "warm", "compact"},
			Stores: []models.Store{
				{Name: "Uniqlo", Price: 8000, Shipping: 0},
				{Name: "楽天市場", Price: 7800, Shipping: 500},
				{Name: "Amazon", Price: 7900, Shipping: 0},
			},
		},
		{
			ID:          "book_001",
			Name:        "Pythonプログラミング入門",
			Price:       2500,
			Description: "初心者向けのPythonプログラミング本。わかりやすい解説付き。",
			Category:    "books",
			Subcategory: "programming",
			Brand:       "技術評論社",
			Rating:      4.6,
			ReviewCount: 450,
			ImageURL:    "https://via.placeholder.com/300x300?text=Python+Book",
			Features:    []string{"educational", "beginner_friendly"},
			Stores: []models.Store{
				{Name: "Amazon", Price: 2500, Shipping: 0},
				{Name: "楽天ブックス", Price: 2480, Shipping: 500},
				{Name: "紀伊國屋書店", Price: 2500, Shipping: 0},
			},
		},
		{
			ID:          "food_001",
			Name:        "有機野菜セット",
			Price:       3000,
			Description: "新鮮な有機野菜のセット。健康に良い食材をお届け。",
			Category:    "food",
			Subcategory: "vegetables",
			Brand:       "オーガニックファーム",
			Rating:      4.3,
			ReviewCount: 1200,
			ImageURL:    "https://via.placeholder.com/300x300?text=Organic+Vegetables",
			Features:    []string{"organic", "fresh", "healthy"},
			Stores: []models.Store{
				{Name: "オーガニックファーム", Price: 3000, Shipping: 500},
				{Name: "楽天市場", Price: 2980, Shipping: 500},
				{Name: "Amazon", Price: 2990, Shipping: 500},
			},
		},
	}
}
