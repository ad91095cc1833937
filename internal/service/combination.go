package service

import (
	"math"

	"elitecafe_v1/internal/model"
)

// FindBestCombination 在容量升序的候选桌列表中找最优组合
// 目标按优先级：总容量 >= targetPersons 且超出最少，其次桌数最少；
// 并列时保留搜索顺序中先发现的组合，结果对固定输入是确定的。
// 找不到任何满足人数的组合时返回空，调用方视为"无桌可订"而非错误。
func FindBestCombination(tables []model.RestaurantTable, targetPersons, maxTables int) []model.RestaurantTable {
	var best []model.RestaurantTable
	minDiff := math.MaxInt
	minCount := math.MaxInt

	// 对每个下标做 取/不取 两分支的穷举递归
	// 候选桌已按容量升序，小桌在前能尽快触达可行解；maxTables 限制树深
	var walk func(index, currentCapacity int, current []model.RestaurantTable)
	walk = func(index, currentCapacity int, current []model.RestaurantTable) {
		if currentCapacity >= targetPersons {
			diff := currentCapacity - targetPersons
			if diff < minDiff || (diff == minDiff && len(current) < minCount) {
				best = append([]model.RestaurantTable(nil), current...)
				minDiff = diff
				minCount = len(current)
			}
			return
		}

		if index >= len(tables) {
			return
		}

		// 分支一：把当前桌加入组合
		if len(current) < maxTables {
			walk(index+1, currentCapacity+tables[index].Capacity, append(current, tables[index]))
		}

		// 分支二：跳过当前桌
		walk(index+1, currentCapacity, current)
	}

	walk(0, 0, nil)
	return best
}
