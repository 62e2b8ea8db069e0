package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballsim/internal/physics"
)

// classic scene from the default configuration
var classicBodies = []struct {
	x, y, r, m float64
}{
	{100, 20, 10, 0.1},
	{200, 20, 10, 120},
	{300, 20, 20, 3},
	{350, 20, 10, 100},
	{100, 20, 30, 10},
	{370, 10, 50, 10},
}

func runToRest(s *physics.Simulator, limit int) map[int][]physics.Phase {
	seen := make(map[int][]physics.Phase)
	for i := 0; i < s.Len(); i++ {
		seen[i] = []physics.Phase{s.Body(i).Phase}
	}
	for i := 0; i < limit && !s.AllStopped(); i++ {
		for _, tr := range s.Step() {
			Expect(tr.From).To(Equal(seen[tr.Body][len(seen[tr.Body])-1]))
			if !tr.Stopped {
				seen[tr.Body] = append(seen[tr.Body], tr.To)
			}
		}
	}
	return seen
}

var _ = Describe("Simulator", func() {
	var (
		params *physics.Params
		sim    *physics.Simulator
	)

	BeforeEach(func() {
		params = physics.DefaultParams()
		var err error
		sim, err = physics.NewSimulator(params)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("with no bodies", func() {
		It("reports all stopped", func() {
			Expect(sim.AllStopped()).To(BeTrue())
			Expect(sim.Step()).To(BeEmpty())
		})
	})

	DescribeTable("the classic scene settles in every phase order",
		func(density float64) {
			for _, b := range classicBodies {
				_, err := sim.AddBody(b.x, b.y, b.r, b.m, "pink2")
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(sim.SetWaterDensity(density)).To(Succeed())

			seen := runToRest(sim, 5000)

			Expect(sim.AllStopped()).To(BeTrue())
			for i, b := range sim.Bodies() {
				Expect(seen[i]).To(Equal([]physics.Phase{
					physics.Falling, physics.Water, physics.Bounce1, physics.Bounce2, physics.Stopping,
				}))
				Expect(b.Y).To(Equal(sim.GroundLevel() - b.Radius))
				Expect(b.X).To(Equal(classicBodies[i].x))
			}
		},
		Entry("low density", physics.DensityLow),
		Entry("normal density", physics.DensityNormal),
		Entry("high density", physics.DensityHigh),
	)

	Describe("transitions", func() {
		It("reports a stop exactly once per body", func() {
			_, err := sim.AddBody(100, 20, 10, 0.1, "")
			Expect(err).NotTo(HaveOccurred())

			stops := 0
			for i := 0; i < 5000 && !sim.AllStopped(); i++ {
				for _, tr := range sim.Step() {
					if tr.Stopped {
						stops++
						Expect(tr.From).To(Equal(physics.Stopping))
						Expect(tr.Tick).To(Equal(sim.Tick()))
					}
				}
			}
			Expect(stops).To(Equal(1))
			for i := 0; i < 10; i++ {
				Expect(sim.Step()).To(BeEmpty())
			}
		})
	})

	Describe("water density", func() {
		It("slows sinking bodies more in denser water", func() {
			other, err := physics.NewSimulator(physics.DefaultParams())
			Expect(err).NotTo(HaveOccurred())
			for _, s := range []*physics.Simulator{sim, other} {
				_, err := s.AddBody(200, 20, 10, 120, "")
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(other.SetWaterDensity(physics.DensityHigh)).To(Succeed())

			for sim.Body(0).Phase == physics.Falling {
				sim.Step()
				other.Step()
			}
			Expect(other.Body(0).Y).To(Equal(sim.Body(0).Y))

			sim.Step()
			other.Step()
			Expect(other.Body(0).Velocity).To(BeNumerically("<", sim.Body(0).Velocity))
		})
	})

	It("keeps the bottom moving down while falling and sinking", func() {
		_, err := sim.AddBody(100, 20, 10, 0.1, "")
		Expect(err).NotTo(HaveOccurred())

		prev := sim.Body(0).Bottom()
		for sim.Body(0).Phase == physics.Falling || sim.Body(0).Phase == physics.Water {
			sim.Step()
			b := sim.Body(0)
			if b.Phase != physics.Bounce1 {
				Expect(b.Bottom()).To(BeNumerically(">=", prev))
			}
			prev = b.Bottom()
		}
	})

	It("leaves Bounce1 moving up and accelerates down through Bounce2", func() {
		for _, b := range classicBodies {
			_, err := sim.AddBody(b.x, b.y, b.r, b.m, "")
			Expect(err).NotTo(HaveOccurred())
		}

		prev := make(map[int]physics.Body)
		rose := make(map[int]bool)
		for i := 0; i < 2000 && !sim.AllStopped(); i++ {
			sim.Step()
			for j, b := range sim.Bodies() {
				if p, ok := prev[j]; ok && b.Phase == physics.Bounce2 {
					if p.Phase == physics.Bounce1 {
						Expect(b.Velocity).To(BeNumerically("<", 0))
					} else {
						Expect(b.Velocity).To(BeNumerically(">", p.Velocity))
						if b.Bottom() < p.Bottom() {
							rose[j] = true
						} else {
							Expect(b.Velocity).To(BeNumerically(">", -1e-9))
						}
					}
				}
				prev[j] = b
			}
		}
		Expect(sim.AllStopped()).To(BeTrue())
		Expect(rose).To(HaveLen(len(classicBodies)))
	})
})
