// Package region classifies store locations as urban or county from the
// store name alone, using a strict priority chain: curated county list,
// then curated district list, then keyword rules, then a default. List
// matches always beat keyword heuristics, whatever order signals appear in
// the name.
package region

import (
	"fmt"
	"strings"

	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/model"
)

// Rule maps a keyword to a region label. Rules are evaluated in declared
// order; the first keyword found in the name wins.
type Rule struct {
	Keyword string
	Label   model.RegionLabel
}

// Config declares the curated lists and fallback rules.
type Config struct {
	// CountyList holds county-level place names; a hit is conclusive.
	CountyList []string
	// DistrictList holds urban district names, consulted after the county list.
	DistrictList []string
	// KeywordRules run only when neither list matched.
	KeywordRules []Rule
	// DefaultLabel is returned when nothing matched. Leave empty to get
	// RegionUnknown instead of a default.
	DefaultLabel model.RegionLabel
}

// DefaultConfig returns the stock Jiangsu/Anhui place-name tables.
func DefaultConfig() Config {
	return Config{
		CountyList: []string{
			// Jiangsu county-level cities and counties
			"句容", "丹阳", "扬中", "沛县", "丰县", "睢宁", "新沂", "邳州",
			"溧阳", "金坛", "如皋", "海门", "启东", "如东", "海安", "东台",
			"大丰", "射阳", "建湖", "阜宁", "滨海", "响水", "沭阳", "泗阳",
			"泗洪", "宝应", "高邮", "仪征", "靖江", "泰兴", "兴化",
			// Anhui county-level cities and counties
			"肥东", "肥西", "长丰", "庐江", "巢湖", "无为", "含山", "和县",
			"当涂", "繁昌", "南陵", "芜湖县", "怀远", "五河", "固镇",
			"濉溪", "蒙城", "涡阳", "利辛", "砀山", "萧县", "灵璧", "泗县",
			"天长", "明光", "来安", "全椒", "定远", "凤阳", "凤台", "寿县",
			"霍邱", "舒城", "金寨", "霍山", "桐城", "怀宁", "太湖", "宿松",
			"望江", "岳西", "潜山", "广德", "宁国", "郎溪", "绩溪", "旌德", "泾县",
		},
		DistrictList: []string{
			// Nanjing
			"江宁", "建邺", "鼓楼", "玄武", "秦淮", "栖霞", "雨花", "浦口", "六合", "溧水", "高淳",
			"仙林", "江浦", "大厂", "桥北", "马群", "尧化", "板桥", "油坊桥",
			// Suzhou
			"姑苏", "吴中", "相城", "吴江", "虎丘", "工业园", "昆山", "太仓", "常熟", "张家港",
			// Wuxi
			"梁溪", "锡山", "惠山", "滨湖", "新吴", "江阴", "宜兴",
			// Changzhou
			"天宁", "钟楼", "新北", "武进",
			// Hefei
			"蜀山", "庐阳", "包河", "瑶海", "高新", "经开", "新站",
			// Wuhu
			"弋江", "镜湖", "鸠江",
			// Bengbu
			"龙子湖", "蚌山", "禹会", "淮上",
			// Xuzhou
			"铜山", "云龙", "泉山", "贾汪",
			// Nantong
			"崇川", "港闸", "通州",
			// Taizhou
			"海陵", "高港", "姜堰",
			// Yancheng
			"亭湖", "盐都",
			// Huai'an
			"清江浦", "淮阴", "淮安区", "洪泽",
			// Suqian
			"宿城", "宿豫",
			// Zhenjiang
			"京口", "润州", "丹徒",
			// Yangzhou
			"广陵", "邗江", "江都",
		},
		KeywordRules: []Rule{
			{Keyword: "县", Label: model.RegionCounty},
			{Keyword: "镇", Label: model.RegionCounty},
			{Keyword: "乡", Label: model.RegionCounty},
			{Keyword: "区", Label: model.RegionUrban},
			{Keyword: "路", Label: model.RegionUrban},
			{Keyword: "街", Label: model.RegionUrban},
			{Keyword: "广场", Label: model.RegionUrban},
			{Keyword: "大道", Label: model.RegionUrban},
			{Keyword: "万达", Label: model.RegionUrban},
			{Keyword: "吾悦", Label: model.RegionUrban},
			{Keyword: "万象", Label: model.RegionUrban},
		},
		DefaultLabel: model.RegionCounty,
	}
}

// Classifier matches store names against the configured chain.
type Classifier struct {
	cfg Config
}

// New validates the config and returns a classifier. The curated lists are
// the contract's highest-priority tier; empty lists would silently demote
// every store to keyword guessing, so they are rejected up front.
func New(cfg Config) (*Classifier, error) {
	if len(cfg.CountyList) == 0 || len(cfg.DistrictList) == 0 {
		return nil, fmt.Errorf("%w: region classifier requires county and district lists", common.ErrInvalidConfig)
	}
	return &Classifier{cfg: cfg}, nil
}

// Classify resolves a store name to a region label. Priority: county list,
// district list, keyword rules in declared order, configured default.
func (c *Classifier) Classify(storeName string) model.RegionLabel {
	name := strings.TrimSpace(storeName)
	if name == "" {
		return c.fallback()
	}

	for _, county := range c.cfg.CountyList {
		if strings.Contains(name, county) {
			return model.RegionCounty
		}
	}
	for _, district := range c.cfg.DistrictList {
		if strings.Contains(name, district) {
			return model.RegionUrban
		}
	}
	for _, rule := range c.cfg.KeywordRules {
		if strings.Contains(name, rule.Keyword) {
			return rule.Label
		}
	}
	return c.fallback()
}

func (c *Classifier) fallback() model.RegionLabel {
	if c.cfg.DefaultLabel == "" {
		return model.RegionUnknown
	}
	return c.cfg.DefaultLabel
}
