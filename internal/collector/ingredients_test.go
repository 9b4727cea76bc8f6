package collector

import "testing"

func TestTagIngredients(t *testing.T) {
	tests := []struct {
		name     string
		dairy    bool
		gluten   bool
		caffeine bool
	}{
		{"Oat Milk Latte", true, false, true},
		{"Grilled Chicken Salad", false, false, false},
		{"Espresso", false, false, true},
		{"Vollkornbrot mit Butter", true, true, false},
		{"Spaghetti Bolognese", false, false, false},
		{"Pasta Carbonara", false, true, false},
		{"Käsekuchen", true, true, false},
		{"Dark Chocolate Bar", false, false, true},
		{"Greek Yogurt", true, false, false},
		{"Matcha Smoothie", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dairy, gluten, caffeine := TagIngredients(tt.name)
			if dairy != tt.dairy {
				t.Errorf("dairy = %v, want %v", dairy, tt.dairy)
			}
			if gluten != tt.gluten {
				t.Errorf("gluten = %v, want %v", gluten, tt.gluten)
			}
			if caffeine != tt.caffeine {
				t.Errorf("caffeine = %v, want %v", caffeine, tt.caffeine)
			}
		})
	}
}
