package classifier

import (
	"strings"
)

// Category is a label from the fixed topic vocabulary.
type Category string

const (
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryTechnology    Category = "technology"
	CategoryBusiness      Category = "business"
	CategoryPolitics      Category = "politics"
	CategoryWorld         Category = "world"
	CategoryFinance       Category = "finance"
	CategoryUncategorized Category = "uncategorized"
)

type rule struct {
	category Category
	keywords []string
}

// Ordered keyword table. The first category with a keyword present in the
// lowercased title wins.
var rules = []rule{
	{CategorySports, []string{
		"football", "basketball", "olympic", "nba", "world cup", "tennis", "marathon",
		"体育", "足球", "篮球", "奥运", "比赛",
	}},
	{CategoryEntertainment, []string{
		"movie", "film", "music", "celebrity", "concert", "box office",
		"娱乐", "电影", "明星", "演唱会", "综艺",
	}},
	{CategoryTechnology, []string{
		"ai", "artificial intelligence", "tech", "software", "chip", "internet",
		"quantum", "robot", "科技", "人工智能", "芯片", "互联网", "软件",
	}},
	{CategoryBusiness, []string{
		"company", "startup", "merger", "ceo", "enterprise", "retail",
		"商业", "企业", "公司", "创业", "零售",
	}},
	{CategoryPolitics, []string{
		"election", "government", "policy", "parliament", "president", "minister",
		"政治", "政府", "选举", "政策", "部长",
	}},
	{CategoryWorld, []string{
		"international", "global", "diplomacy", "united nations", "summit",
		"国际", "世界", "外交", "峰会",
	}},
	{CategoryFinance, []string{
		"stock", "market", "bank", "currency", "fund", "economy", "inflation",
		"金融", "股市", "银行", "经济", "基金",
	}},
}

// Classify maps a title to a category via case-insensitive substring
// matching against the ordered keyword table. A title matching no keyword
// returns CategoryUncategorized. The result is a pure function of the
// lowercased title.
func Classify(title string) Category {
	lowered := strings.ToLower(title)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(lowered, keyword) {
				return r.category
			}
		}
	}
	return CategoryUncategorized
}

// Vocabulary returns the closed category set, classification order first,
// uncategorized last.
func Vocabulary() []Category {
	categories := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		categories = append(categories, r.category)
	}
	return append(categories, CategoryUncategorized)
}

// Valid reports whether the value belongs to the category vocabulary.
func Valid(value string) bool {
	for _, c := range Vocabulary() {
		if string(c) == value {
			return true
		}
	}
	return false
}
