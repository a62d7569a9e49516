package catalog

const defaultModel3D = "/assets/3d/duck.glb"

// SeedProducts returns the launch catalog. Each call allocates a fresh slice.
func SeedProducts() []Product {
	return []Product{
		{
			ID: "1", Name: "SuperStay Matte Ink Liquid Lipstick", Price: 996, Category: CategoryLips, Color: "red",
			Sizes: []string{"5ml"}, Model3D: defaultModel3D, Image: "/maybelline-superstay-red.png",
			Description: "Up to 16-hour wear liquid matte lipstick", PersonalityMatch: 95, Brand: "Maybelline New York", Rating: 4.5, Reviews: 2847,
		},
		{
			ID: "2", Name: "Fit Me Matte + Poreless Foundation", Price: 664, Category: CategoryFace, Color: "beige",
			Sizes: []string{"30ml"}, Model3D: defaultModel3D, Image: "/maybelline-fitme-foundation.png",
			Description: "Natural coverage foundation for normal to oily skin", PersonalityMatch: 92, Brand: "Maybelline New York", Rating: 4.3, Reviews: 5621,
		},
		{
			ID: "3", Name: "The Falsies Lash Lift Mascara", Price: 830, Category: CategoryEyes, Color: "black",
			Sizes: []string{"9.6ml"}, Model3D: defaultModel3D, Image: "/maybelline-falsies-mascara.png",
			Description: "Lifts and lengthens lashes for a false lash effect", PersonalityMatch: 89, Brand: "Maybelline New York", Rating: 4.4, Reviews: 3456,
		},
		{
			ID: "4", Name: "Cheek Heat Gel-Based Blush", Price: 747, Category: CategoryCheeks, Color: "pink",
			Sizes: []string{"4.5ml"}, Model3D: defaultModel3D, Image: "/maybelline-cheek-heat.png",
			Description: "Buildable gel blush for a natural flush", PersonalityMatch: 87, Brand: "Maybelline New York", Rating: 4.2, Reviews: 1892,
		},
		{
			ID: "5", Name: "Tattoo Brow 36HR Eyebrow Pencil", Price: 913, Category: CategoryEyes, Color: "brown",
			Sizes: []string{"0.2g"}, Model3D: defaultModel3D, Image: "/maybelline-tattoo-brow.png",
			Description: "Long-lasting eyebrow pencil with spoolie", PersonalityMatch: 85, Brand: "Maybelline New York", Rating: 4.6, Reviews: 2134,
		},
		{
			ID: "6", Name: "Rouge Signature Matte Lip Stain", Price: 1162, Category: CategoryLips, Color: "berry",
			Sizes: []string{"7ml"}, Model3D: defaultModel3D, Image: "/loreal-rouge-signature.png",
			Description: "Ultra-lightweight matte liquid lipstick", PersonalityMatch: 93, Brand: "L'Oréal Paris", Rating: 4.4, Reviews: 1967,
		},
		{
			ID: "7", Name: "True Match Foundation", Price: 1328, Category: CategoryFace, Color: "nude",
			Sizes: []string{"30ml"}, Model3D: defaultModel3D, Image: "/loreal-true-match.png",
			Description: "Perfect match foundation with SPF 17", PersonalityMatch: 91, Brand: "L'Oréal Paris", Rating: 4.5, Reviews: 4523,
		},
		{
			ID: "8", Name: "Voluminous Lash Paradise Mascara", Price: 1079, Category: CategoryEyes, Color: "black",
			Sizes: []string{"7.6ml"}, Model3D: defaultModel3D, Image: "/loreal-lash-paradise.png",
			Description: "Volumizing and lengthening mascara", PersonalityMatch: 88, Brand: "L'Oréal Paris", Rating: 4.3, Reviews: 3789,
		},
		{
			ID: "9", Name: "Infallible 24HR Eye Shadow", Price: 996, Category: CategoryEyes, Color: "gold",
			Sizes: []string{"3.5g"}, Model3D: defaultModel3D, Image: "/loreal-infallible-eyeshadow.png",
			Description: "Waterproof cream eyeshadow", PersonalityMatch: 86, Brand: "L'Oréal Paris", Rating: 4.2, Reviews: 2456,
		},
		{
			ID: "10", Name: "Ruby Woo Lipstick", Price: 2075, Category: CategoryLips, Color: "red",
			Sizes: []string{"3g"}, Model3D: defaultModel3D, Image: "/mac-ruby-woo.png",
			Description: "Iconic matte red lipstick", PersonalityMatch: 96, Brand: "MAC Cosmetics", Rating: 4.7, Reviews: 8934,
		},
		{
			ID: "11", Name: "Studio Fix Fluid Foundation", Price: 2905, Category: CategoryFace, Color: "beige",
			Sizes: []string{"30ml"}, Model3D: defaultModel3D, Image: "/mac-studio-fix.png",
			Description: "Medium to full coverage foundation", PersonalityMatch: 94, Brand: "MAC Cosmetics", Rating: 4.6, Reviews: 5672,
		},
		{
			ID: "12", Name: "In Extreme Dimension Mascara", Price: 2324, Category: CategoryEyes, Color: "black",
			Sizes: []string{"13ml"}, Model3D: defaultModel3D, Image: "/mac-extreme-dimension.png",
			Description: "3D volume and curl mascara", PersonalityMatch: 90, Brand: "MAC Cosmetics", Rating: 4.4, Reviews: 3421,
		},
		{
			ID: "13", Name: "Extra Dimension Blush", Price: 2490, Category: CategoryCheeks, Color: "coral",
			Sizes: []string{"4g"}, Model3D: defaultModel3D, Image: "/mac-extra-dimension-blush.png",
			Description: "Luminous powder blush", PersonalityMatch: 88, Brand: "MAC Cosmetics", Rating: 4.5, Reviews: 2789,
		},
		{
			ID: "14", Name: "All Nighter Setting Spray", Price: 2656, Category: CategoryFace, Color: "clear",
			Sizes: []string{"118ml"}, Model3D: defaultModel3D, Image: "/urban-decay-all-nighter.png",
			Description: "16-hour makeup setting spray", PersonalityMatch: 85, Brand: "Urban Decay", Rating: 4.6, Reviews: 4567,
		},
		{
			ID: "15", Name: "Naked3 Eyeshadow Palette", Price: 4482, Category: CategoryEyes, Color: "pink",
			Sizes: []string{"15.6g"}, Model3D: defaultModel3D, Image: "/urban-decay-naked3.png",
			Description: "12 rose-hued neutral eyeshadows", PersonalityMatch: 92, Brand: "Urban Decay", Rating: 4.8, Reviews: 6789,
		},
		{
			ID: "16", Name: "Vice Lipstick", Price: 1826, Category: CategoryLips, Color: "purple",
			Sizes: []string{"3.4g"}, Model3D: defaultModel3D, Image: "/urban-decay-vice-lipstick.png",
			Description: "Creamy, pigmented lipstick", PersonalityMatch: 87, Brand: "Urban Decay", Rating: 4.3, Reviews: 2345,
		},
		{
			ID: "17", Name: "Orgasm Blush", Price: 3154, Category: CategoryCheeks, Color: "coral",
			Sizes: []string{"4.8g"}, Model3D: defaultModel3D, Image: "/nars-orgasm-blush.png",
			Description: "Iconic peachy pink blush with golden undertones", PersonalityMatch: 94, Brand: "NARS", Rating: 4.7, Reviews: 7234,
		},
		{
			ID: "18", Name: "Sheer Glow Foundation", Price: 3901, Category: CategoryFace, Color: "nude",
			Sizes: []string{"30ml"}, Model3D: defaultModel3D, Image: "/nars-sheer-glow.png",
			Description: "Natural radiant finish foundation", PersonalityMatch: 91, Brand: "NARS", Rating: 4.5, Reviews: 3456,
		},
		{
			ID: "19", Name: "Velvet Matte Lip Pencil", Price: 2241, Category: CategoryLips, Color: "red",
			Sizes: []string{"2.4g"}, Model3D: defaultModel3D, Image: "/nars-velvet-matte.png",
			Description: "Precision matte lip color", PersonalityMatch: 89, Brand: "NARS", Rating: 4.4, Reviews: 2987,
		},
		{
			ID: "20", Name: "Pro Filt'r Foundation", Price: 2988, Category: CategoryFace, Color: "brown",
			Sizes: []string{"32ml"}, Model3D: defaultModel3D, Image: "/fenty-pro-filtr.png",
			Description: "Soft matte longwear foundation", PersonalityMatch: 93, Brand: "Fenty Beauty", Rating: 4.6, Reviews: 5432,
		},
		{
			ID: "21", Name: "Stunna Lip Paint", Price: 2075, Category: CategoryLips, Color: "red",
			Sizes: []string{"4ml"}, Model3D: defaultModel3D, Image: "/fenty-stunna-lip.png",
			Description: "Longwear fluid lip color", PersonalityMatch: 95, Brand: "Fenty Beauty", Rating: 4.5, Reviews: 4321,
		},
		{
			ID: "22", Name: "Killawatt Freestyle Highlighter", Price: 2988, Category: CategoryFace, Color: "gold",
			Sizes: []string{"8g"}, Model3D: defaultModel3D, Image: "/fenty-killawatt.png",
			Description: "Hybrid powder highlighter", PersonalityMatch: 90, Brand: "Fenty Beauty", Rating: 4.7, Reviews: 3876,
		},
		{
			ID: "23", Name: "Pillow Talk Lipstick", Price: 2822, Category: CategoryLips, Color: "nude",
			Sizes: []string{"3.5g"}, Model3D: defaultModel3D, Image: "/charlotte-pillow-talk.png",
			Description: "Universally flattering nude pink", PersonalityMatch: 96, Brand: "Charlotte Tilbury", Rating: 4.8, Reviews: 6543,
		},
		{
			ID: "24", Name: "Magic Foundation", Price: 3652, Category: CategoryFace, Color: "beige",
			Sizes: []string{"30ml"}, Model3D: defaultModel3D, Image: "/charlotte-magic-foundation.png",
			Description: "Medium coverage foundation with SPF 15", PersonalityMatch: 92, Brand: "Charlotte Tilbury", Rating: 4.6, Reviews: 4567,
		},
		{
			ID: "25", Name: "Cheek to Chic Blush", Price: 3320, Category: CategoryCheeks, Color: "pink",
			Sizes: []string{"8g"}, Model3D: defaultModel3D, Image: "/charlotte-cheek-to-chic.png",
			Description: "Two-tone blush for sculpting and highlighting", PersonalityMatch: 88, Brand: "Charlotte Tilbury", Rating: 4.5, Reviews: 2345,
		},
		{
			ID: "26", Name: "Soft Pinch Liquid Blush", Price: 1660, Category: CategoryCheeks, Color: "pink",
			Sizes: []string{"15ml"}, Model3D: defaultModel3D, Image: "/rare-beauty-soft-pinch.png",
			Description: "Weightless, long-lasting liquid blush", PersonalityMatch: 91, Brand: "Rare Beauty", Rating: 4.7, Reviews: 3456,
		},
		{
			ID: "27", Name: "Liquid Touch Weightless Foundation", Price: 2407, Category: CategoryFace, Color: "nude",
			Sizes: []string{"30ml"}, Model3D: defaultModel3D, Image: "/rare-beauty-foundation.png",
			Description: "Buildable medium coverage foundation", PersonalityMatch: 89, Brand: "Rare Beauty", Rating: 4.4, Reviews: 2789,
		},
		{
			ID: "28", Name: "Soft Matte Lip Cream", Price: 1328, Category: CategoryLips, Color: "berry",
			Sizes: []string{"5ml"}, Model3D: defaultModel3D, Image: "/rare-beauty-lip-cream.png",
			Description: "Comfortable matte liquid lipstick", PersonalityMatch: 87, Brand: "Rare Beauty", Rating: 4.3, Reviews: 1987,
		},
	}
}
