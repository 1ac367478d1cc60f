package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"
)

// proofTypeValue validates the --proof-type flag at parse time so a typo
// fails before the command touches the roadmap.
type proofTypeValue struct {
	v *domain.ProofType
}

var _ pflag.Value = (*proofTypeValue)(nil)

func (p *proofTypeValue) String() string {
	if p.v == nil {
		return ""
	}
	return string(*p.v)
}

func (p *proofTypeValue) Set(s string) error {
	pt := domain.ProofType(s)
	if !pt.Valid() {
		return fmt.Errorf("unknown proof type %q (expected one of %s)", s, strings.Join(proofTypeNames(), ", "))
	}
	*p.v = pt
	return nil
}

func (p *proofTypeValue) Type() string { return "proof-type" }

func proofTypeNames() []string {
	names := make([]string, 0, len(domain.ValidProofTypes))
	for pt := range domain.ValidProofTypes {
		names = append(names, string(pt))
	}
	sort.Strings(names)
	return names
}
