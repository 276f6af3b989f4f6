package fulfillment

import (
	"fmt"
	"sort"

	"github.com/orderfeed/backend/internal/domain/fulfillment"
)

// RegisterCustomFieldMappings answers each configured slot from the order's own
// custom field with the mapped key. Slot names are matched case-insensitively.
func RegisterCustomFieldMappings(hooks *fulfillment.Hooks, mappings map[string]string) error {
	slots := make([]string, 0, len(mappings))
	for slot := range mappings {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	for _, slot := range slots {
		field, ok := fulfillment.ParseCustomField(slot)
		if !ok {
			return fmt.Errorf("unknown custom field %q", slot)
		}
		key := mappings[slot]
		if key == "" {
			return fmt.Errorf("custom field %s has no order field", field)
		}
		hooks.OnCustomField(field, fulfillment.OrderFieldHook(key))
	}
	return nil
}
