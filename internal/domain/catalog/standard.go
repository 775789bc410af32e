package catalog

var standardCategories = []Category{
	{
		Code: "壹",
		Name: "拆除工程",
		Items: []Item{
			{ID: "demo-xl-1", Name: "RC面打除至露出鋼筋", Unit: "SM", DefaultPrice: 1000, Notes: "含混凝土碎塊及殘渣合法清運"},
			{ID: "demo-xl-2", Name: "拆除隔熱層、防水層及PC層至RC面", Unit: "SM", DefaultPrice: 2300, Notes: "含廢料清運"},
			{ID: "demo-xl-5", Name: "混凝土面電鋸切割", Unit: "M", DefaultPrice: 92, Notes: "含粉塵收集"},
			{ID: "demo-xl-6", Name: "混凝土地坪伸縮縫切割", Unit: "M", DefaultPrice: 276, Notes: "工料"},
			{ID: "demo-xl-8", Name: "RC面打毛", Unit: "SM", DefaultPrice: 920, Notes: "含廢料清運"},
			{ID: "demo-xl-9", Name: "施工面高壓水清洗", Unit: "SM", DefaultPrice: 920, Notes: "含人工小搬運"},
			{ID: "demo-1", Name: "原有隔間牆拆除", Unit: "M2", DefaultPrice: 450, Notes: "含清運"},
			{ID: "demo-2", Name: "原有地磚拆除", Unit: "M2", DefaultPrice: 650, Notes: "打除至結構面"},
		},
	},
	{
		Code: "貳",
		Name: "泥作及結構補強",
		Items: []Item{
			{ID: "mas-xl-1", Name: "鋼筋除鏽防鏽處理", Unit: "SM", DefaultPrice: 500, Notes: "責任施工"},
			{ID: "mas-xl-2", Name: "RC頂板面以強固輕質環氧樹脂砂漿結構修補填平", Unit: "SM", DefaultPrice: 3000, Notes: "STRONG EPOXY 502"},
			{ID: "mas-xl-4", Name: "無塵室牆體裂縫低壓灌注鋼板結構補強EPOXY", Unit: "M", DefaultPrice: 3000, Notes: "強固SP-869AB，含SP-70AB封塞"},
			{ID: "mas-xl-5", Name: "碳纖維補強(貼覆二層)", Unit: "SM", DefaultPrice: 10000, Notes: "200g/m2, 抗拉35000kg/cm2"},
			{ID: "mas-1", Name: "1:3 水泥粉光", Unit: "M2", DefaultPrice: 1200, Notes: "牆面/地面"},
			{ID: "mas-4", Name: "新建 4吋 磚牆", Unit: "M2", DefaultPrice: 2800, Notes: "含植筋"},
		},
	},
	{
		Code: "參",
		Name: "防水工程",
		Items: []Item{
			{ID: "wp-xl-1", Name: "高壓灌注德國明氏彈性發泡樹脂 MC-INJEKT 2133", Unit: "PC", DefaultPrice: 1200, Notes: "灌注二次，含孔洞填平"},
			{ID: "wp-xl-3", Name: "無塵室內高壓灌注德國明氏彈性發泡樹脂 MC-INJEKT 2133", Unit: "PC", DefaultPrice: 3500, Notes: "灌注二次，含集塵及無線施工"},
			{ID: "wp-xl-4", Name: "無塵室裂縫及孔洞封塞 (強固SP-70AB)", Unit: "PC", DefaultPrice: 300},
			{ID: "wp-xl-5", Name: "伸縮縫專用高彈性填縫材填縫防水 Sikaflex® PRO-3", Unit: "M", DefaultPrice: 2760, Notes: "單液型萬用彈性地坪填縫膠"},
			{ID: "wp-1", Name: "浴室地面防水 (彈性水泥 1底2度)", Unit: "間", DefaultPrice: 4500, Notes: "轉角抗裂網補強"},
			{ID: "wp-3", Name: "頂樓 PU 防水 (底/中/面漆)", Unit: "坪", DefaultPrice: 4500, Notes: "含素地整理"},
		},
	},
	{
		Code: "肆",
		Name: "油漆工程",
		Items: []Item{
			{ID: "paint-xl-1", Name: "無塵室地坪塗布無溶劑型環氧樹脂 一底二度", Unit: "SM", DefaultPrice: 3000, Notes: "長城大地KL-229、KL-230"},
			{ID: "paint-xl-2", Name: "鋼構除鏽防鏽處理", Unit: "SM", DefaultPrice: 2000, Notes: "鐵衛R-790常溫鐵鏽轉化劑"},
			{ID: "paint-xl-3", Name: "鋼構塗布防蝕漆 一底二度", Unit: "SM", DefaultPrice: 3000, Notes: "長城大地KL-409、KL-530"},
			{ID: "paint-xl-4", Name: "牆面粉刷水泥漆二道 (虹牌450)", Unit: "SM", DefaultPrice: 1380},
		},
	},
	{
		Code: "伍",
		Name: "假設及雜項工程",
		Items: []Item{
			{ID: "misc-xl-1", Name: "吊車承攬 45噸", Unit: "ST", DefaultPrice: 40000, Notes: "天"},
			{ID: "misc-xl-7", Name: "營建防水緊急入廠搶修基本工資", Unit: "ST", DefaultPrice: 8000, Notes: "出工1人/天"},
			{ID: "misc-xl-9", Name: "系統架搭拆", Unit: "M3", DefaultPrice: 800},
			{ID: "misc-xl-12", Name: "結構計算書", Unit: "ST", DefaultPrice: 30000},
			{ID: "misc-xl-13", Name: "施工區域管制", Unit: "M", DefaultPrice: 1000, Notes: "含指揮人員及設備"},
			{ID: "misc-xl-14", Name: "工安管理費", Unit: "ST", DefaultPrice: 0, Notes: "上限為單案總金額10%"},
		},
	},
	{
		Code: "陸",
		Name: "水電工程",
		Items: []Item{
			{ID: "hydro-1", Name: "全室電線更新 (2.0mm)", Unit: "式", DefaultPrice: 35000, Notes: "依坪數調整"},
			{ID: "hydro-2", Name: "新增電源迴路 (專用迴路)", Unit: "迴", DefaultPrice: 2500, Notes: "含無熔絲開關"},
		},
	},
}

var standardPresets = []Preset{
	{
		ID:          "template-waterproof",
		Name:        "防水工程範本",
		Description: "高壓灌注、填縫防水及相關雜項工程",
		Sections: []PresetSection{
			{CategoryCode: "參", ItemIDs: []string{"wp-xl-1", "wp-xl-3", "wp-xl-4", "wp-xl-5"}},
			{CategoryCode: "伍", ItemIDs: []string{"misc-xl-1", "misc-xl-7", "misc-xl-13"}},
		},
	},
	{
		ID:          "template-structure-reinforce",
		Name:        "結構補強工程範本",
		Description: "針對 RC 結構修補、鋼筋除鏽及碳纖維補強",
		Sections: []PresetSection{
			{CategoryCode: "壹", ItemIDs: []string{"demo-xl-1", "demo-xl-8", "demo-xl-9"}},
			{CategoryCode: "貳", ItemIDs: []string{"mas-xl-1", "mas-xl-2", "mas-xl-5", "mas-xl-4"}},
			{CategoryCode: "伍", ItemIDs: []string{"misc-xl-12", "misc-xl-14"}},
		},
	},
	{
		ID:          "template-factory-painting",
		Name:        "廠房塗裝與地坪範本",
		Description: "無塵室地坪、鋼構防蝕漆",
		Sections: []PresetSection{
			{CategoryCode: "肆", ItemIDs: []string{"paint-xl-1", "paint-xl-2", "paint-xl-3"}},
			{CategoryCode: "壹", ItemIDs: []string{"demo-xl-5", "demo-xl-6"}},
			{CategoryCode: "參", ItemIDs: []string{"wp-xl-5"}},
		},
	},
}
