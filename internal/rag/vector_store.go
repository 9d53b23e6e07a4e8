package rag

import "context"

// Entry 索引条目。ID为插入时生成的uuid，
// Seq为插入序号，用于同分结果的先插入优先排序
type Entry struct {
	ID     string
	Seq    int64
	Text   string
	Vector []float32
}

// Match 检索命中。Score为余弦相似度，越大越相似
type Match struct {
	ID    string
	Seq   int64
	Text  string
	Score float64
}

// VectorStore 向量存储接口
type VectorStore interface {
	// Upsert 批量写入条目。空切片为无操作
	Upsert(ctx context.Context, entries []Entry) error
	// Search 按余弦相似度检索最相近的k条。
	// 结果按相似度降序，同分按插入序号升序
	Search(ctx context.Context, vector []float32, k int) ([]Match, error)
	// Count 返回已索引的条目数
	Count(ctx context.Context) (int64, error)
	// Ready 检查存储是否可用
	Ready() bool
}
