package expr

import "github.com/zkpool/shielder/utils"

// Hash codes are fast and not collision resistant; collisions are resolved
// by EqualI inside utils.Map.

const (
	tagConstant uint64 = 0x9e3779b97f4a7c15
	tagAdvice   uint64 = 0xc2b2ae3d27d4eb4f
	tagFixed    uint64 = 0x165667b19e3779f9
	tagSelector uint64 = 0x27d4eb2f165667c5
	tagSum      uint64 = 0x85ebca77c2b2ae63
	tagProduct  uint64 = 0xff51afd7ed558ccd
	tagScaled   uint64 = 0xc4ceb9fe1a85ec53
	tagNegated  uint64 = 0x2545f4914f6cdd1d
)

func (c Constant) HashCode() uint64 {
	return tagConstant ^ c.Value[0] ^ c.Value[1]*998244353 ^ c.Value[2]*1000000007 ^ c.Value[3]
}

func (a Advice) HashCode() uint64 {
	return tagAdvice ^ uint64(a.Column)*998244353 ^ uint64(int64(a.Rotation))*1000000007
}

func (f Fixed) HashCode() uint64 {
	return tagFixed ^ uint64(f.Column)*998244353 ^ uint64(int64(f.Rotation))*1000000007
}

func (s Selector) HashCode() uint64 {
	return tagSelector ^ uint64(s.Index)*998244353
}

func (s Sum) HashCode() uint64 {
	return tagSum ^ s.A.HashCode()*23 ^ s.B.HashCode()*29
}

func (p Product) HashCode() uint64 {
	return tagProduct ^ p.A.HashCode()*23 ^ p.B.HashCode()*29
}

func (s Scaled) HashCode() uint64 {
	return tagScaled ^ s.E.HashCode()*23 ^ s.C[0] ^ s.C[3]
}

func (n Negated) HashCode() uint64 {
	return tagNegated ^ n.E.HashCode()*23
}

func (c Constant) EqualI(o utils.Hashable) bool {
	oc, ok := o.(Constant)
	return ok && c.Value.Equal(&oc.Value)
}

func (a Advice) EqualI(o utils.Hashable) bool {
	oa, ok := o.(Advice)
	return ok && a == oa
}

func (f Fixed) EqualI(o utils.Hashable) bool {
	of, ok := o.(Fixed)
	return ok && f == of
}

func (s Selector) EqualI(o utils.Hashable) bool {
	os, ok := o.(Selector)
	return ok && s == os
}

func (s Sum) EqualI(o utils.Hashable) bool {
	os, ok := o.(Sum)
	return ok && s.A.EqualI(os.A) && s.B.EqualI(os.B)
}

func (p Product) EqualI(o utils.Hashable) bool {
	op, ok := o.(Product)
	return ok && p.A.EqualI(op.A) && p.B.EqualI(op.B)
}

func (s Scaled) EqualI(o utils.Hashable) bool {
	os, ok := o.(Scaled)
	return ok && s.C.Equal(&os.C) && s.E.EqualI(os.E)
}

func (n Negated) EqualI(o utils.Hashable) bool {
	on, ok := o.(Negated)
	return ok && n.E.EqualI(on.E)
}
