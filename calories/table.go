// Package calories holds the static food calorie table and the food
// recognition stub built on top of it.
package calories

import (
	"errors"
	"sort"
)

// DefaultPer100g is returned by Lookup for foods missing from the table.
const DefaultPer100g = 100.0

var ErrInvalidWeight = errors.New("weight must be greater than zero")

// per100g maps a food name to kcal per 100g. Keys must match exactly.
var per100g = map[string]float64{
	"米饭": 116, "白米饭": 116, "糙米饭": 111, "馒头": 221, "花卷": 217, "面条": 130, "拉面": 110, "饺子": 240, "包子": 280,
	"面包": 286, "全麦面包": 260, "蛋糕": 348, "饼干": 435, "油条": 385, "粥": 46,
	"鸡蛋": 143, "鸭蛋": 180, "鸡胸肉": 165, "鸡腿肉": 181, "牛肉": 125, "瘦牛肉": 105, "肥牛肉": 345,
	"猪肉": 395, "瘦猪肉": 143, "五花肉": 408, "鱼肉": 100, "三文鱼": 208, "虾": 83, "螃蟹": 103,
	"西红柿": 18, "黄瓜": 15, "青菜": 25, "菠菜": 28, "西兰花": 34, "胡萝卜": 41, "土豆": 77, "红薯": 86,
	"南瓜": 26, "冬瓜": 12, "芹菜": 16, "生菜": 16, "辣椒": 29,
	"苹果": 52, "香蕉": 91, "橙子": 47, "橘子": 51, "葡萄": 69, "草莓": 32, "西瓜": 30, "芒果": 60,
	"猕猴桃": 61, "梨": 58, "桃子": 42,
	"牛奶": 54, "酸奶": 72, "奶酪": 406, "黄油": 717,
	"薯片": 536, "巧克力": 546, "糖果": 400, "坚果": 607, "花生": 567, "核桃": 654,
	"豆腐": 81, "豆浆": 16, "腐竹": 457, "豆干": 140,
}

// names is the table's key set in a fixed order, so random draws and
// listings are reproducible for a given index.
var names = sortedNames()

func sortedNames() []string {
	out := make([]string, 0, len(per100g))
	for name := range per100g {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns kcal per 100g for name, or DefaultPer100g when the name is unknown.
func Lookup(name string) float64 {
	if v, ok := per100g[name]; ok {
		return v
	}
	return DefaultPer100g
}

// Known reports whether name is present in the table.
func Known(name string) bool {
	_, ok := per100g[name]
	return ok
}

// Compute returns the calories of weightGrams of the named food.
func Compute(name string, weightGrams float64) (float64, error) {
	if weightGrams <= 0 {
		return 0, ErrInvalidWeight
	}
	return Lookup(name) / 100 * weightGrams, nil
}

// Names returns a copy of all food names in the table, sorted.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Len returns the number of entries in the table.
func Len() int {
	return len(names)
}
