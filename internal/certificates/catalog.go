package certificates

// DefaultCatalog mirrors the rows seeded by the certificates migration.
func DefaultCatalog() []Certificate {
	return []Certificate{
		{
			ID:          "green-commuter",
			Name:        "Green Commuter",
			Description: "Cut the emissions of your daily travel.",
			Goals: []Goal{
				{ID: "gc-cycle", Title: "Cycle or walk to work for 10 days", Description: "Log ten commutes without a car."},
				{ID: "gc-transit", Title: "Use public transport for a month", Description: "Replace car trips with bus, tram or train."},
				{ID: "gc-carpool", Title: "Join a carpool", Description: "Share at least four commutes a month."},
			},
			Requirements: []string{"Completed lifestyle survey"},
		},
		{
			ID:          "zero-waste-home",
			Name:        "Zero Waste Home",
			Description: "Reduce household waste sent to landfill.",
			Goals: []Goal{
				{ID: "zw-compost", Title: "Start composting", Description: "Compost kitchen scraps for four weeks."},
				{ID: "zw-recycle", Title: "Sort recyclables", Description: "Separate paper, glass, metal and plastics."},
				{ID: "zw-reuse", Title: "Switch to reusable bags and bottles", Description: "Stop buying single-use bags and bottles."},
			},
			Requirements: []string{"Completed lifestyle survey"},
		},
		{
			ID:          "energy-saver",
			Name:        "Energy Saver",
			Description: "Lower the energy footprint of your home.",
			Goals: []Goal{
				{ID: "es-led", Title: "Replace bulbs with LEDs", Description: "Swap every incandescent bulb at home."},
				{ID: "es-reduce", Title: "Cut electricity use by 10%", Description: "Compare two consecutive monthly bills."},
			},
			Requirements: []string{"Completed lifestyle survey", "At least one product analysis"},
		},
	}
}
