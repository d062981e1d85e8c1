package scorer

// Keyword tables for the local heuristic strategy. Matching is
// case-insensitive substring search over the combined title+content text.

var scaleKeywords = []string{
	"global", "nationwide", "worldwide", "massive", "million", "billion",
	"全国", "全球", "大规模", "数百万",
}

var impactKeywords = []string{
	"crisis", "emergency", "ban", "regulation", "breaking", "shutdown",
	"重大", "危机", "紧急", "监管",
}

var noveltyKeywords = []string{
	"breakthrough", "first", "unprecedented", "novel", "discovery", "launch",
	"首次", "突破", "创新", "发现",
}

var potentialKeywords = []string{
	"ai", "quantum", "future", "emerging", "growth", "next-generation",
	"人工智能", "量子", "潜力", "前景",
}

var legacyKeywords = []string{
	"historic", "anniversary", "tradition", "heritage", "milestone", "legacy",
	"历史", "传统", "里程碑", "周年",
}

var positiveKeywords = []string{
	"success", "win", "growth", "benefit", "improve", "celebrate", "breakthrough",
	"成功", "增长", "利好", "庆祝",
}

var negativeKeywords = []string{
	"death", "crash", "decline", "fraud", "crisis", "collapse", "scandal",
	"死亡", "事故", "下跌", "诈骗",
}

// Credible publisher strings checked by the heuristic credibility factor.
var credibleDomains = []string{
	"reuters.com", "apnews.com", "bbc.co.uk", "bloomberg.com", "nytimes.com",
	"xinhuanet.com", "people.com.cn", "gov.cn",
}
