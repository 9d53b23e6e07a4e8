package sentiment

import (
	"strings"
	"unicode"
)

// Classifier 将文本映射为离散情绪标签。
// 先通过内置极性词典计算[0,1]区间的情感分，再按阈值表取标签。
// 纯函数，无外部依赖，可并发调用
type Classifier struct {
	maxWordLen int
}

// NewClassifier 创建情感分类器
func NewClassifier() *Classifier {
	maxLen := 1
	for word := range polarity {
		if n := len([]rune(word)); n > maxLen {
			maxLen = n
		}
	}
	return &Classifier{maxWordLen: maxLen}
}

// Classify 计算情感分并映射为情绪标签
func (c *Classifier) Classify(text string) Label {
	return MapScore(c.Score(text))
}

// Score 计算[0,1]区间的情感分。
// 对文本做最长匹配扫描，命中极性词后累计正/负权重；
// 命中词紧邻否定词时极性翻转；无命中时返回中性0.5
func (c *Classifier) Score(text string) float64 {
	runes := []rune(strings.ToLower(text))

	var pos, neg float64
	negated := false
	i := 0
	for i < len(runes) {
		r := runes[i]

		// ASCII单词整体消费，按词查极性
		if isASCIILetter(r) {
			j := i
			for j < len(runes) && isASCIILetter(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if w, ok := polarity[word]; ok {
				addWeight(&pos, &neg, w, negated)
			}
			negated = word == "not" || word == "no" || word == "never"
			i = j
			continue
		}

		// 中文按最长匹配查词
		matched := false
		maxLen := c.maxWordLen
		if rest := len(runes) - i; rest < maxLen {
			maxLen = rest
		}
		for l := maxLen; l >= 1; l-- {
			word := string(runes[i : i+l])
			if w, ok := polarity[word]; ok {
				addWeight(&pos, &neg, w, negated)
				negated = false
				i += l
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if negators[r] {
			negated = true
		} else if !unicode.IsSpace(r) {
			negated = false
		}
		i++
	}

	// 拉普拉斯平滑：无命中时得分为中性0.5
	return (pos + 0.5) / (pos + neg + 1.0)
}

func addWeight(pos, neg *float64, w float64, negated bool) {
	if negated {
		w = -w
	}
	if w > 0 {
		*pos += w
	} else {
		*neg += -w
	}
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// MapScore 按阈值表映射情感分。规则按分值从高到低评估，
// 首个命中即返回；比较均为严格大于（0.75恰好落入calm）
func MapScore(score float64) Label {
	switch {
	case score > 0.75:
		return LabelJoyful
	case score > 0.55:
		return LabelCalm
	case score > 0.35:
		return LabelAnxious
	case score > 0.15:
		return LabelSad
	default:
		return LabelAngry
	}
}
