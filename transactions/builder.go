package transactions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
)

// BuildTransaction turns dapp supplied arguments into an unsigned transaction.
// Nonce, gas and pricing are always set by the initiator of the transaction (the dapp),
// nothing is estimated here.
func BuildTransaction(args SendTxArgs) (*gethtypes.Transaction, error) {
	if !args.Valid() {
		return nil, ErrInvalidSendTxArgs
	}
	if args.Nonce == nil {
		return nil, ErrMissingNonce
	}
	if args.Gas == nil {
		return nil, ErrMissingGas
	}
	if args.GasPrice == nil && !args.IsDynamicFeeTx() {
		return nil, ErrMissingGasPrice
	}

	nonce := uint64(*args.Nonce)
	gas := uint64(*args.Gas)
	value := new(big.Int)
	if args.Value != nil {
		value = (*big.Int)(args.Value)
	}
	var gasPrice *big.Int
	if args.GasPrice != nil {
		gasPrice = (*big.Int)(args.GasPrice)
	}

	return buildTransactionWithOverrides(nonce, value, gas, gasPrice, args), nil
}

func buildTransactionWithOverrides(nonce uint64, value *big.Int, gas uint64, gasPrice *big.Int, args SendTxArgs) *gethtypes.Transaction {
	var tx *gethtypes.Transaction

	if args.To != nil {
		to := common.Address(*args.To)
		var txData gethtypes.TxData

		if args.IsDynamicFeeTx() {
			gasTipCap := (*big.Int)(args.MaxPriorityFeePerGas)
			gasFeeCap := (*big.Int)(args.MaxFeePerGas)

			txData = &gethtypes.DynamicFeeTx{
				Nonce:     nonce,
				Gas:       gas,
				GasTipCap: gasTipCap,
				GasFeeCap: gasFeeCap,
				To:        &to,
				Value:     value,
				Data:      args.GetInput(),
			}
		} else {
			txData = &gethtypes.LegacyTx{
				Nonce:    nonce,
				GasPrice: gasPrice,
				Gas:      gas,
				To:       &to,
				Value:    value,
				Data:     args.GetInput(),
			}
		}
		tx = gethtypes.NewTx(txData)
		logNewTx(args, gas, gasPrice, value)
	} else {
		if args.IsDynamicFeeTx() {
			gasTipCap := (*big.Int)(args.MaxPriorityFeePerGas)
			gasFeeCap := (*big.Int)(args.MaxFeePerGas)

			txData := &gethtypes.DynamicFeeTx{
				Nonce:     nonce,
				Value:     value,
				Gas:       gas,
				GasTipCap: gasTipCap,
				GasFeeCap: gasFeeCap,
				Data:      args.GetInput(),
			}
			tx = gethtypes.NewTx(txData)
		} else {
			tx = gethtypes.NewContractCreation(nonce, value, gas, gasPrice, args.GetInput())
		}
		logNewContract(args, gas, gasPrice, value, nonce)
	}

	return tx
}

func logNewTx(args SendTxArgs, gas uint64, gasPrice *big.Int, value *big.Int) {
	log.Debug("New transaction",
		"From", args.From,
		"To", *args.To,
		"Gas", gas,
		"GasPrice", gasPrice,
		"Value", value,
	)
}

func logNewContract(args SendTxArgs, gas uint64, gasPrice *big.Int, value *big.Int, nonce uint64) {
	log.Debug("New contract",
		"From", args.From,
		"Gas", gas,
		"GasPrice", gasPrice,
		"Value", value,
		"Contract address", crypto.CreateAddress(args.From, nonce),
	)
}
