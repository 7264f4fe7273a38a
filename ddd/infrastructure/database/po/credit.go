package po

// CreditAccount persistence object: the per-user balance debited by the
// admission gate with a single conditional UPDATE.
type CreditAccount struct {
	BaseModel
	UserUUID string `gorm:"column:user_uuid;type:varchar(36);uniqueIndex" json:"user_uuid"`
	Balance  int    `gorm:"column:balance" json:"balance"`
}

// TableName sets the table name.
func (CreditAccount) TableName() string {
	return "credit_accounts"
}

// CreditTransaction persistence object: append-only audit line, amount signed.
type CreditTransaction struct {
	BaseModel
	UserUUID    string `gorm:"column:user_uuid;type:varchar(36);index" json:"user_uuid"`
	Amount      int    `gorm:"column:amount" json:"amount"`
	Description string `gorm:"column:description;type:varchar(255)" json:"description"`
}

// TableName sets the table name.
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
