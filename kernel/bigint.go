package kernel

import "math/big"

var (
	_ BigInt = &BigIntT{}
)

// BigIntT is a signed integer without overflow. Add and Sub update the
// receiver in place and return it.
type BigIntT big.Int

func NewInt(strnum string) BigInt {
	res, ok := big.NewInt(0).SetString(strnum, 10)
	if !ok {
		return nil
	}
	return (*BigIntT)(res)
}

func UintToInt(num uint64) BigInt {
	return (*BigIntT)(big.NewInt(0).SetUint64(num))
}

func ZeroInt() BigInt {
	return NewInt("0")
}

func (x *BigIntT) Add(y BigInt) BigInt {
	yn := (*big.Int)((y).(*BigIntT))
	return (*BigIntT)((*big.Int)(x).Add((*big.Int)(x), yn))
}

func (x *BigIntT) Sub(y BigInt) BigInt {
	yn := (*big.Int)((y).(*BigIntT))
	return (*BigIntT)((*big.Int)(x).Sub((*big.Int)(x), yn))
}

func (x *BigIntT) Cmp(y BigInt) int {
	return (*big.Int)(x).Cmp((*big.Int)(y.(*BigIntT)))
}

func (x *BigIntT) Sign() int {
	return (*big.Int)(x).Sign()
}

func (x *BigIntT) IsInt64() bool {
	return (*big.Int)(x).IsInt64()
}

func (x *BigIntT) Int64() int64 {
	return (*big.Int)(x).Int64()
}

func (x *BigIntT) String() string {
	return (*big.Int)(x).String()
}
