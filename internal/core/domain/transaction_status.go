package domain

// Confirmations returns the number of confirmations of a transaction mined at
// blockNumber given the current chain height.
func Confirmations(height int64, blockNumber *int64) int64 {
	if blockNumber == nil || *blockNumber > height {
		return 0
	}
	return height - *blockNumber + 1
}

// IsFailed returns whether the transaction is an auction purchase that
// bought nothing once mined, or a failed contract call.
func IsFailed(tx ParsedTransaction, confirmations int64) bool {
	if tx.ContractCallFailed {
		return true
	}
	boughtNothing := tx.MetBoughtInAuction == nil || isZeroAmount(*tx.MetBoughtInAuction)
	return tx.TxType == TxTypeAuction && boughtNothing && confirmations > 0
}

// IsPending returns whether the transaction is not failed and has not
// reached ConfirmationsThreshold yet.
func IsPending(tx ParsedTransaction, confirmations int64) bool {
	return !IsFailed(tx, confirmations) && confirmations < ConfirmationsThreshold
}
