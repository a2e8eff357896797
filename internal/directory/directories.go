package directory

import (
	"fmt"

	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/pricing"
)

type (
	EquipmentStore = Store[model.Equipment]
	EmployeeStore  = Store[model.Employee]
	LoadoutStore   = Store[model.Loadout]
	CustomerStore  = Store[model.Customer]
	ProposalStore  = Store[model.Proposal]
	WorkOrderStore = Store[model.WorkOrder]
)

// NewEquipment rejects records with non-positive life or annual hours with
// pricing.ErrInvalidConfiguration before any other validation.
func NewEquipment(p Persister[model.Equipment]) *EquipmentStore {
	return New("equipment", p, func(e model.Equipment) error {
		if err := pricing.CheckEquipment(e); err != nil {
			return err
		}
		return checkRecord(e)
	})
}

// NewEmployees returns the employee directory.
func NewEmployees(p Persister[model.Employee]) *EmployeeStore {
	return New("employees", p, checkRecord[model.Employee])
}

// NewLoadouts returns the loadout directory.
func NewLoadouts(p Persister[model.Loadout]) *LoadoutStore {
	return New("loadouts", p, checkRecord[model.Loadout])
}

// NewCustomers returns the customer directory.
func NewCustomers(p Persister[model.Customer]) *CustomerStore {
	return New("customers", p, checkRecord[model.Customer])
}

// NewProposals returns the proposal directory. Only the status is checked.
func NewProposals(p Persister[model.Proposal]) *ProposalStore {
	return New("proposals", p, func(pr model.Proposal) error {
		if !pr.Status.Valid() {
			return fmt.Errorf("%w: unknown proposal status %q", ErrInvalidRecord, pr.Status)
		}
		return nil
	})
}

// NewWorkOrders returns the work order directory.
func NewWorkOrders(p Persister[model.WorkOrder]) *WorkOrderStore {
	return New("work orders", p, checkRecord[model.WorkOrder])
}

func checkRecord[T any](record T) error {
	if err := model.Validate(record); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}
