package fabric

import (
	"errors"
	"math"
	"testing"

	"github.com/newtron-network/leafspine/pkg/util"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		p          Params
		wantBound  Bound
		wantDemand int
		wantErr    bool
	}{
		{"small fabric", Params{2, 4, 2, 16}, "", 0, false},
		{"exactly at radix", Params{2, 7, 5, 8}, "", 0, false},
		{"minimal", Params{1, 1, 1, 3}, "", 0, false},
		{"leaf bound", Params{10, 20, 5, 8}, BoundLeafPorts, 16, true},
		{"leaf bound by one", Params{2, 4, 6, 8}, BoundLeafPorts, 9, true},
		{"spine bound", Params{1, 20, 1, 8}, BoundSpinePorts, 21, true},
		{"spine bound by one", Params{1, 8, 1, 8}, BoundSpinePorts, 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%v) error = %v, wantErr %v", tt.p, err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var fe *FeasibilityError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FeasibilityError, got %T", err)
			}
			if fe.Bound != tt.wantBound {
				t.Errorf("bound = %s, want %s", fe.Bound, tt.wantBound)
			}
			if fe.Demand != tt.wantDemand {
				t.Errorf("demand = %d, want %d", fe.Demand, tt.wantDemand)
			}
			if fe.Budget != tt.p.Radix {
				t.Errorf("budget = %d, want %d", fe.Budget, tt.p.Radix)
			}
			if !errors.Is(err, util.ErrInfeasible) {
				t.Error("feasibility error should unwrap to ErrInfeasible")
			}
		})
	}
}

func TestValidate_LeafBoundCheckedFirst(t *testing.T) {
	// Both bounds are violated; the leaf bound must be the one reported.
	err := Validate(Params{Spines: 10, Leaves: 20, HostsPerLeaf: 5, Radix: 8})
	var fe *FeasibilityError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FeasibilityError, got %v", err)
	}
	if fe.Bound != BoundLeafPorts {
		t.Errorf("bound = %s, want %s", fe.Bound, BoundLeafPorts)
	}
}

func TestValidate_Malformed(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero spines", Params{0, 4, 2, 16}},
		{"zero leaves", Params{2, 0, 2, 16}},
		{"zero hosts", Params{2, 4, 0, 16}},
		{"zero radix", Params{2, 4, 2, 0}},
		{"negative", Params{-1, -1, -1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.p)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, util.ErrValidationFailed) {
				t.Errorf("expected validation error, got %v", err)
			}
			if errors.Is(err, util.ErrInfeasible) {
				t.Error("malformed input must not be reported as infeasible")
			}
		})
	}
}

func TestValidate_AllMalformedFieldsReported(t *testing.T) {
	err := Validate(Params{})
	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) != 4 {
		t.Errorf("reported %d problems, want 4: %v", len(ve.Errors), ve.Errors)
	}
}

func TestValidate_HugeCountsAreInfeasible(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		bound Bound
	}{
		{"spines at MaxInt", Params{Spines: math.MaxInt, Leaves: 1, HostsPerLeaf: 1, Radix: 16}, BoundLeafPorts},
		{"hosts per leaf at MaxInt", Params{Spines: 1, Leaves: 1, HostsPerLeaf: math.MaxInt, Radix: math.MaxInt}, BoundLeafPorts},
		{"leaves at MaxInt", Params{Spines: 1, Leaves: math.MaxInt, HostsPerLeaf: 1, Radix: math.MaxInt}, BoundSpinePorts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fe *FeasibilityError
			if err := Validate(tt.p); !errors.As(err, &fe) {
				t.Fatalf("Validate(%v) = %v, want *FeasibilityError", tt.p, err)
			}
			if fe.Bound != tt.bound {
				t.Errorf("bound = %s, want %s", fe.Bound, tt.bound)
			}
			if fe.Demand != math.MaxInt {
				t.Errorf("demand = %d, want saturated %d", fe.Demand, math.MaxInt)
			}
		})
	}
}

func TestPortUsage_Saturates(t *testing.T) {
	u := PortUsage(Params{Spines: math.MaxInt, Leaves: math.MaxInt, HostsPerLeaf: 1, Radix: math.MaxInt})
	if u.LeafFits || u.SpineFits {
		t.Errorf("overflowing demand must not fit: %+v", u)
	}
	if u.LeafDemand != math.MaxInt || u.SpineDemand != math.MaxInt {
		t.Errorf("demands = %d/%d, want saturated", u.LeafDemand, u.SpineDemand)
	}
}
