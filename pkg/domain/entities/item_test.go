package entities

import "testing"

func TestItem_Validation(t *testing.T) {
	validItem, err := NewItem(38, "000038", "000038_FG_CEFEPIME_1g_10x1g_FR")
	if err != nil {
		t.Fatalf("Expected valid item creation to succeed: %v", err)
	}
	if validItem.ID != 38 {
		t.Errorf("Expected id 38, got %d", validItem.ID)
	}

	testCases := []struct {
		name        string
		id          ItemID
		productID   string
		label       string
		expectError string
	}{
		{"zero id", 0, "000038", "label", "item id must be positive, got 0"},
		{"negative id", -4, "000038", "label", "item id must be positive, got -4"},
		{"empty label", 1, "000038", "", "label cannot be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewItem(tc.id, tc.productID, tc.label)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}
