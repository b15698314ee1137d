package models

// Counter is a named monotonic sequence. Order numbers are allocated from the
// "orders" row with a single atomic upsert so concurrent checkouts can never
// observe the same value.
type Counter struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null;default:0"`
}
