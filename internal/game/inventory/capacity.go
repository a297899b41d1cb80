package inventory

// capacityEpsilon tolerates float error in the load comparison.
const capacityEpsilon = 1e-9

// ValidateCapacity checks that quantity units of moving fit in destination:
// the per-unit base encumbrance times quantity plus the current load must
// not exceed capacity. The NoContainer location is unlimited.
//
// Postcondition: returns nil or a *CapacityExceededError; nothing is modified.
func ValidateCapacity(moving Entry, quantity int, destination Container) error {
	if destination.Unlimited() {
		return nil
	}
	required := BaseEncumbrance(moving) * float64(quantity)
	load := destination.Load()
	if required+load > destination.Capacity+capacityEpsilon {
		return &CapacityExceededError{
			ContainerID: destination.ID,
			Name:        destination.Name,
			Capacity:    destination.Capacity,
			Load:        load,
			Required:    required,
		}
	}
	return nil
}
