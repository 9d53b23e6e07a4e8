package sentiment

// Label 情绪标签。枚举顺序与打分阈值区间对应（由高到低），
// 不代表情绪强度排序
type Label string

const (
	LabelJoyful  Label = "joyful"
	LabelCalm    Label = "calm"
	LabelAnxious Label = "anxious"
	LabelSad     Label = "sad"
	LabelAngry   Label = "angry"
)

// Labels 按阈值区间从高到低返回全部标签
func Labels() []Label {
	return []Label{LabelJoyful, LabelCalm, LabelAnxious, LabelSad, LabelAngry}
}

// Valid 是否为已定义的标签
func (l Label) Valid() bool {
	switch l {
	case LabelJoyful, LabelCalm, LabelAnxious, LabelSad, LabelAngry:
		return true
	}
	return false
}

// Chinese 标签的中文呈现，用于拼装中文提示词
func (l Label) Chinese() string {
	switch l {
	case LabelJoyful:
		return "愉快"
	case LabelCalm:
		return "平静"
	case LabelAnxious:
		return "焦虑"
	case LabelSad:
		return "悲伤"
	case LabelAngry:
		return "愤怒"
	}
	return string(l)
}
