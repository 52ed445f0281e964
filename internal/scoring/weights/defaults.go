package weights

// defaultConfig mirrors config/weights.yaml. The numbers are the canonical
// production matrices; the YAML file exists so operators can retune without
// a rebuild, and must pass the same validation.
var defaultConfig = fileConfig{
	Base: matrixConfig{
		ID: "base_v1",
		Weights: map[string]float64{
			"semantic":           0.24,
			"salary":             0.19,
			"experience":         0.14,
			"location":           0.09,
			"motivations":        0.08,
			"sector":             0.06,
			"contract":           0.05,
			"timing":             0.04,
			"work_modality":      0.04,
			"salary_progression": 0.03,
			"listening_reason":   0.02,
			"candidate_status":   0.02,
		},
	},
	Adaptive: map[string]matrixConfig{
		"COMPENSATION_LOW": {
			ID: "adaptive_compensation_low_v1",
			Weights: map[string]float64{
				"semantic":           0.20,
				"salary":             0.32,
				"experience":         0.12,
				"location":           0.07,
				"motivations":        0.06,
				"sector":             0.05,
				"contract":           0.04,
				"timing":             0.03,
				"work_modality":      0.03,
				"salary_progression": 0.05,
				"listening_reason":   0.02,
				"candidate_status":   0.01,
			},
		},
		"ROLE_MISMATCH": {
			ID: "adaptive_role_mismatch_v1",
			Weights: map[string]float64{
				"semantic":           0.32,
				"salary":             0.15,
				"experience":         0.12,
				"location":           0.07,
				"motivations":        0.12,
				"sector":             0.06,
				"contract":           0.04,
				"timing":             0.03,
				"work_modality":      0.04,
				"salary_progression": 0.02,
				"listening_reason":   0.02,
				"candidate_status":   0.01,
			},
		},
		"GROWTH_LACK": {
			ID: "adaptive_growth_lack_v1",
			Weights: map[string]float64{
				"semantic":           0.26,
				"salary":             0.14,
				"experience":         0.12,
				"location":           0.07,
				"motivations":        0.12,
				"sector":             0.06,
				"contract":           0.04,
				"timing":             0.03,
				"work_modality":      0.03,
				"salary_progression": 0.10,
				"listening_reason":   0.02,
				"candidate_status":   0.01,
			},
		},
		"LOCATION_ISSUE": {
			ID: "adaptive_location_issue_v1",
			Weights: map[string]float64{
				"semantic":           0.20,
				"salary":             0.16,
				"experience":         0.12,
				"location":           0.20,
				"motivations":        0.06,
				"sector":             0.05,
				"contract":           0.04,
				"timing":             0.03,
				"work_modality":      0.08,
				"salary_progression": 0.02,
				"listening_reason":   0.02,
				"candidate_status":   0.02,
			},
		},
		"FLEXIBILITY_LACK": {
			ID: "adaptive_flexibility_lack_v1",
			Weights: map[string]float64{
				"semantic":           0.20,
				"salary":             0.16,
				"experience":         0.12,
				"location":           0.08,
				"motivations":        0.07,
				"sector":             0.05,
				"contract":           0.05,
				"timing":             0.08,
				"work_modality":      0.14,
				"salary_progression": 0.02,
				"listening_reason":   0.02,
				"candidate_status":   0.01,
			},
		},
	},
}
