package sentiment

// polarity 极性词典。权重为正表示积极，为负表示消极，
// 绝对值反映强度。多字词优先于单字词匹配
var polarity = map[string]float64{
	// 积极
	"开心":    1.0,
	"高兴":    1.0,
	"快乐":    1.0,
	"愉快":    1.0,
	"幸福":    1.5,
	"喜欢":    1.0,
	"喜悦":    1.0,
	"兴奋":    1.0,
	"期待":    0.8,
	"满意":    1.0,
	"满足":    1.0,
	"安心":    0.8,
	"放心":    0.8,
	"轻松":    0.8,
	"舒服":    0.8,
	"舒心":    0.8,
	"温暖":    0.8,
	"甜":     0.8,
	"甜蜜":    1.0,
	"美好":    1.0,
	"太好了":   1.5,
	"好棒":    1.2,
	"棒":     1.0,
	"真棒":    1.2,
	"厉害":    0.8,
	"可爱":    0.8,
	"爱你":    1.5,
	"爱":     1.0,
	"想你":    0.8,
	"哈哈":    1.0,
	"嘻嘻":    0.8,
	"笑":     0.6,
	"赞":     1.0,
	"顺利":    0.8,
	"成功":    1.0,
	"好":     0.6,
	"不错":    0.8,
	"感谢":    0.8,
	"谢谢":    0.8,
	"惊喜":    1.0,
	"浪漫":    0.8,
	"happy": 1.0,
	"glad":  1.0,
	"great": 1.0,
	"good":  0.8,
	"love":  1.2,
	"nice":  0.8,
	"sweet": 0.8,
	"fine":  0.6,
	"calm":  0.6,
	"relax": 0.6,

	// 消极
	"难过":     -1.2,
	"伤心":     -1.2,
	"悲伤":     -1.5,
	"痛苦":     -1.5,
	"心痛":     -1.2,
	"失望":     -1.0,
	"绝望":     -2.0,
	"委屈":     -1.0,
	"孤独":     -1.0,
	"寂寞":     -1.0,
	"想哭":     -1.2,
	"哭":      -1.0,
	"累":      -0.8,
	"疲惫":     -0.8,
	"烦":      -1.0,
	"烦躁":     -1.2,
	"心烦":     -1.2,
	"焦虑":     -1.0,
	"紧张":     -0.8,
	"担心":     -0.8,
	"害怕":     -1.0,
	"恐惧":     -1.2,
	"不安":     -0.8,
	"压力":     -0.8,
	"崩溃":     -1.8,
	"生气":     -1.5,
	"气死":     -2.0,
	"愤怒":     -2.0,
	"讨厌":     -1.2,
	"恨":      -1.8,
	"烦死":     -1.8,
	"滚":      -1.8,
	"糟糕":     -1.2,
	"糟":      -1.0,
	"差":      -0.8,
	"坏":      -0.8,
	"不好":     -1.0,
	"不行":     -0.8,
	"难受":     -1.2,
	"郁闷":     -1.0,
	"沮丧":     -1.2,
	"心情不好":   -1.5,
	"不开心":    -1.2,
	"不高兴":    -1.2,
	"失败":     -1.0,
	"倒霉":     -1.0,
	"唉":      -0.6,
	"呜呜":     -1.0,
	"sad":    -1.2,
	"angry":  -1.8,
	"upset":  -1.0,
	"bad":    -0.8,
	"hate":   -1.8,
	"tired":  -0.8,
	"cry":    -1.0,
	"worry":  -0.8,
	"awful":  -1.2,
	"lonely": -1.0,
}

// negators 否定词（单字）。紧邻极性词出现时翻转其极性
var negators = map[rune]bool{
	'不': true,
	'没': true,
	'别': true,
	'莫': true,
	'勿': true,
	'未': true,
	'无': true,
	'非': true,
}
