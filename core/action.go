package core

// ActionType ledger operation recorded in the journal
type ActionType string

const (
	ActionDeposit            ActionType = "deposit"
	ActionWithdraw           ActionType = "withdraw"
	ActionSetInterestRate    ActionType = "set_interest_rate"
	ActionSetPrice           ActionType = "set_price"
	ActionDepositCollateral  ActionType = "deposit_collateral"
	ActionBorrow             ActionType = "borrow"
	ActionRepay              ActionType = "repay"
	ActionWithdrawCollateral ActionType = "withdraw_collateral"
	ActionLiquidate          ActionType = "liquidate"
	ActionApprove            ActionType = "approve"
	ActionTransferToken      ActionType = "transfer_token"
)

func (a ActionType) String() string {
	return string(a)
}
