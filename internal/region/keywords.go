package region

import "strings"

// LabelRule maps an ordered keyword set to a label. Shared by the
// consumption-scenario tagger; same evaluation contract as the region
// chain's keyword tier.
type LabelRule struct {
	Label    string
	Keywords []string
}

// KeywordLabeler assigns zero or more labels to free text by substring
// match. Rules are evaluated in declared order so output order is stable.
type KeywordLabeler struct {
	rules []LabelRule
}

// NewKeywordLabeler builds a labeler over the given rules.
func NewKeywordLabeler(rules []LabelRule) *KeywordLabeler {
	return &KeywordLabeler{rules: append([]LabelRule(nil), rules...)}
}

// DefaultScenarioRules are the stock consumption-scenario keyword sets.
func DefaultScenarioRules() []LabelRule {
	return []LabelRule{
		{Label: "早餐快手", Keywords: []string{"早餐", "牛奶", "面包", "麦片", "鸡蛋"}},
		{Label: "加班能量补给", Keywords: []string{"咖啡", "能量饮料", "巧克力", "饼干", "能量棒"}},
		{Label: "家庭囤货", Keywords: []string{"大包装", "家庭装", "组合装", "箱", "量贩"}},
		{Label: "聚会零食", Keywords: []string{"薯片", "膨化", "糖果", "坚果", "汽水", "啤酒"}},
	}
}

// Labels returns every rule label whose keywords appear in the text.
func (l *KeywordLabeler) Labels(text string) []string {
	lowered := strings.ToLower(text)
	var labels []string
	for _, rule := range l.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				labels = append(labels, rule.Label)
				break
			}
		}
	}
	return labels
}
