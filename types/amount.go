package types

import (
	"fmt"
	"math"
)

// Amount is a fungible asset quantity in the smallest indivisible unit.
//
// Addition saturates at math.MaxUint64; use CheckedAdd where overflow must be
// detected instead.
type Amount uint64

const ZeroAmount Amount = 0

func (a Amount) Add(b Amount) Amount {
	if s, ok := a.CheckedAdd(b); ok {
		return s
	}
	return Amount(math.MaxUint64)
}

func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	s := a + b
	if s < a {
		return 0, false
	}
	return s, true
}

func (a Amount) Value() Value { return Uint(uint64(a)) }

func AmountFromValue(v Value) Amount {
	u, ok := v.AsUint()
	if !ok {
		panic(fmt.Sprintf("types: %s value is %s, not uint", TypeAmount, v.Kind()))
	}
	return Amount(u)
}

// SumAmounts folds every value into an Amount starting from ZeroAmount.
// An empty or nil slice sums to zero.
func SumAmounts(vals []Value) Amount {
	sum := ZeroAmount
	for _, v := range vals {
		sum = sum.Add(AmountFromValue(v))
	}
	return sum
}
