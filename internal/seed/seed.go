// Package seed provides the built-in starter catalog: a small curated
// set of equations and constants spanning the standard categories.
package seed

import (
	"github.com/physref/quicksheet/internal/store"
)

func rank(v float64) *float64 { return &v }

// Items returns the curated starter set. Ranks are per-category display
// positions for explicit ordering; popularity is an editorial 0..10.
func Items() []store.Item {
	return []store.Item{
		{
			ID: "eq-velocity", Kind: store.KindEquation,
			Name: "Velocity", Symbol: "v",
			Latex: "v = \\frac{\\Delta x}{\\Delta t}",
			Text:  "rate of change of position",
			Tags:  []string{"kinematics", "motion", "speed"},
			Category: "Kinematics", Popularity: 8, Rank: rank(1),
		},
		{
			ID: "eq-uniform-accel", Kind: store.KindEquation,
			Name: "Uniform acceleration", Symbol: "x(t)",
			Latex: "x = x_0 + v_0 t + \\tfrac{1}{2} a t^2",
			Text:  "position under constant acceleration",
			Tags:  []string{"kinematics", "acceleration", "suvat"},
			Category: "Kinematics", Popularity: 7, Rank: rank(2),
		},
		{
			ID: "eq-newton-second", Kind: store.KindEquation,
			Name: "Newton's second law", Symbol: "F",
			Latex: "F = m a",
			Text:  "net force equals mass times acceleration",
			Tags:  []string{"force", "dynamics", "newton"},
			Category: "Dynamics", Popularity: 10, Rank: rank(1),
		},
		{
			ID: "eq-friction", Kind: store.KindEquation,
			Name: "Kinetic friction", Symbol: "f_k",
			Latex: "f_k = \\mu_k N",
			Text:  "friction force on a sliding body",
			Tags:  []string{"force", "friction"},
			Category: "Dynamics", Popularity: 5, Rank: rank(2),
		},
		{
			ID: "eq-kinetic-energy", Kind: store.KindEquation,
			Name: "Kinetic energy", Symbol: "E_k",
			Latex: "E_k = \\tfrac{1}{2} m v^2",
			Text:  "energy of motion",
			Tags:  []string{"energy", "motion"},
			Category: "Work & Energy", Popularity: 9, Rank: rank(1),
		},
		{
			ID: "eq-work", Kind: store.KindEquation,
			Name: "Work", Symbol: "W",
			Latex: "W = F d \\cos\\theta",
			Text:  "work done by a constant force",
			Tags:  []string{"energy", "work", "force"},
			Category: "Work & Energy", Popularity: 6, Rank: rank(2),
		},
		{
			ID: "eq-momentum", Kind: store.KindEquation,
			Name: "Linear momentum", Symbol: "p",
			Latex: "p = m v",
			Text:  "momentum of a moving mass",
			Tags:  []string{"momentum", "collision"},
			Category: "Momentum", Popularity: 7, Rank: rank(1),
		},
		{
			ID: "eq-torque", Kind: store.KindEquation,
			Name: "Torque", Symbol: "\\tau",
			Latex: "\\tau = r F \\sin\\theta",
			Text:  "turning effect of a force about an axis",
			Tags:  []string{"rotation", "torque", "lever"},
			Category: "Rotation", Popularity: 5, Rank: rank(1),
		},
		{
			ID: "eq-shm-period", Kind: store.KindEquation,
			Name: "Period of a spring oscillator", Symbol: "T",
			Latex: "T = 2\\pi \\sqrt{\\frac{m}{k}}",
			Text:  "period of simple harmonic motion on a spring",
			Tags:  []string{"oscillation", "spring", "period"},
			Category: "Oscillations", Popularity: 4, Rank: rank(1),
		},
		{
			ID: "eq-ideal-gas", Kind: store.KindEquation,
			Name: "Ideal gas law", Symbol: "PV",
			Latex: "P V = n R T",
			Text:  "state equation for an ideal gas",
			Tags:  []string{"gas", "thermodynamics", "pressure"},
			Category: "Thermodynamics", Popularity: 8, Rank: rank(1),
		},
		{
			ID: "const-g", Kind: store.KindConstant,
			Name: "Standard gravity", Symbol: "g",
			Value: "9.80665", Units: "m s^-2",
			Text:  "standard acceleration due to gravity",
			Tags:  []string{"gravity", "acceleration"},
			Category: "Constants", Source: "CODATA",
			Popularity: 9, Rank: rank(1),
		},
		{
			ID: "const-c", Kind: store.KindConstant,
			Name: "Speed of light in vacuum", Symbol: "c",
			Value: "2.99792458e8", Units: "m s^-1",
			Text:  "exact by definition of the metre",
			Tags:  []string{"light", "relativity"},
			Category: "Constants", Source: "SI",
			Popularity: 10, Rank: rank(2),
		},
		{
			ID: "const-gravitation", Kind: store.KindConstant,
			Name: "Gravitational constant", Symbol: "G",
			Value: "6.67430e-11", Units: "m^3 kg^-1 s^-2",
			Text:  "Newtonian constant of gravitation",
			Tags:  []string{"gravity"},
			Category: "Constants", Source: "CODATA",
			Popularity: 6, Rank: rank(3),
		},
		{
			ID: "const-boltzmann", Kind: store.KindConstant,
			Name: "Boltzmann constant", Symbol: "k_B",
			Value: "1.380649e-23", Units: "J K^-1",
			Text:  "relates temperature to energy",
			Tags:  []string{"thermodynamics", "statistical"},
			Category: "Constants", Source: "SI",
			Popularity: 5, Rank: rank(4),
		},
	}
}

// Apply upserts the starter set into the database. Existing items with
// the same ids are overwritten; everything else is left alone.
func Apply(db *store.DB) (int, error) {
	items := Items()
	if err := db.BulkUpsert(items); err != nil {
		return 0, err
	}
	return len(items), nil
}
