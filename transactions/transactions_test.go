package transactions

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

func TestParseSendTxArgsLenientHex(t *testing.T) {
	input := `{
		"from": "0x0000000000000000000000000000000000000001",
		"to": "0x0000000000000000000000000000000000000002",
		"nonce": "0x01",
		"gas": "0x05208",
		"gasPrice": "0x",
		"value": "0x00de0b6b3a7640000",
		"data": "0x"
	}`

	args, err := ParseSendTxArgs([]byte(input))
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x1"), args.From)
	require.Equal(t, common.HexToAddress("0x2"), *args.To)
	require.Equal(t, hexutil.Uint64(1), *args.Nonce)
	require.Equal(t, hexutil.Uint64(21000), *args.Gas)
	require.Equal(t, 0, args.GasPrice.ToInt().Sign())
	require.Equal(t, "1000000000000000000", args.Value.ToInt().String())
	require.False(t, args.IsDynamicFeeTx())
}

func TestParseSendTxArgsErrors(t *testing.T) {
	_, err := ParseSendTxArgs([]byte(`{"nonce": "0xzz"}`))
	require.Error(t, err)

	_, err = ParseSendTxArgs([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseSendTxArgs([]byte(`{"input": "0x01", "data": "0x02"}`))
	require.Equal(t, ErrInvalidSendTxArgs, err)
}

func Test_fixWalletHexValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"0x01"`, `"0x1"`},
		{`"0x"`, `"0x0"`},
		{`"0x000"`, `"0x0"`},
		{`"0xabc"`, `"0xabc"`},
		{`null`, `null`},
		{`12`, `12`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := fixWalletHexValue([]byte(tt.in))
			require.NoError(t, err)
			require.Equal(t, tt.want, string(got))
		})
	}
}

func TestBuildTransaction(t *testing.T) {
	to := common.HexToAddress("0x2")
	nonce := hexutil.Uint64(3)
	gas := hexutil.Uint64(21000)
	gasPrice := (*hexutil.Big)(big.NewInt(10))
	maxFee := (*hexutil.Big)(big.NewInt(30))
	maxTip := (*hexutil.Big)(big.NewInt(2))

	legacy, err := BuildTransaction(SendTxArgs{To: &to, Nonce: &nonce, Gas: &gas, GasPrice: gasPrice})
	require.NoError(t, err)
	require.Equal(t, uint8(gethtypes.LegacyTxType), legacy.Type())
	require.Equal(t, uint64(3), legacy.Nonce())
	require.Equal(t, to, *legacy.To())
	require.Equal(t, 0, legacy.Value().Sign())

	dynamic, err := BuildTransaction(SendTxArgs{To: &to, Nonce: &nonce, Gas: &gas, MaxFeePerGas: maxFee, MaxPriorityFeePerGas: maxTip})
	require.NoError(t, err)
	require.Equal(t, uint8(gethtypes.DynamicFeeTxType), dynamic.Type())
	require.Equal(t, 0, big.NewInt(30).Cmp(dynamic.GasFeeCap()))

	creation, err := BuildTransaction(SendTxArgs{Nonce: &nonce, Gas: &gas, GasPrice: gasPrice, Data: hexutil.Bytes{0x60, 0x60}})
	require.NoError(t, err)
	require.Nil(t, creation.To())
	require.Equal(t, []byte{0x60, 0x60}, creation.Data())
}

func TestBuildTransactionMissingFields(t *testing.T) {
	nonce := hexutil.Uint64(3)
	gas := hexutil.Uint64(21000)

	_, err := BuildTransaction(SendTxArgs{Gas: &gas})
	require.Equal(t, ErrMissingNonce, err)

	_, err = BuildTransaction(SendTxArgs{Nonce: &nonce})
	require.Equal(t, ErrMissingGas, err)

	_, err = BuildTransaction(SendTxArgs{Nonce: &nonce, Gas: &gas})
	require.Equal(t, ErrMissingGasPrice, err)
}
