package port

import "context"

// TxRepositories bundles the repositories participating in a transaction.
type TxRepositories struct {
	Users    UserRepository
	Settings SettingsRepository
	Actions  ActionRepository
}

// UnitOfWork runs fn against transaction-scoped repositories. The transaction
// commits when fn returns nil and rolls back otherwise, so a redemption's
// effect and its ledger delete never split across a failure boundary.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
