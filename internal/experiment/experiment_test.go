package experiment

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sidsmp/internal/model"
	"github.com/san-kum/sidsmp/internal/sim"
)

func shortConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Horizon = 20
	cfg.Samples = 100
	return cfg
}

var _ = Describe("Registry", func() {
	It("lists the built-in integrators in order", func() {
		Expect(NewRegistry().ListIntegrators()).To(Equal([]string{"euler", "rk4", "rk45"}))
	})

	It("rejects unknown integrators", func() {
		_, err := NewRegistry().GetIntegrator("leapfrog")
		Expect(err).To(MatchError(ContainSubstring("unknown integrator")))
	})

	It("builds fresh metrics on every call", func() {
		r := NewRegistry()
		a, b := r.DefaultMetrics(), r.DefaultMetrics()
		Expect(a).To(HaveLen(len(b)))
		Expect(a[0]).NotTo(BeIdenticalTo(b[0]))
	})
})

var _ = Describe("RegimeVariation", func() {
	var runner *Runner

	BeforeEach(func() {
		runner = NewRunner(model.DefaultParameters(), shortConfig())
	})

	It("keeps one result per load in request order", func() {
		rs, err := RegimeVariation(context.Background(), runner, []float64{3, 0, 5, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(rs.Loads()).To(Equal([]float64{3, 0, 5}))

		for i, r := range rs.Ordered() {
			Expect(r.Load).To(Equal(rs.Loads()[i]))
			Expect(r.Metrics).To(HaveKey("peak_efficiency"))
		}
	})

	It("detaches only above the threshold", func() {
		rs, err := RegimeVariation(context.Background(), runner, DefaultLoads)
		Expect(err).NotTo(HaveOccurred())

		low, ok := rs.Get(2)
		Expect(ok).To(BeTrue())
		Expect(low.Final().State.Coupling).To(BeNumerically("~", 1, 1e-9))

		high, _ := rs.Get(5)
		Expect(high.Final().State.Coupling).To(BeNumerically("~", math.Exp(-0.1*20), 1e-6))
	})

	It("reports invalid parameters as configuration errors", func() {
		runner.Params.Zeta = -1
		_, err := RegimeVariation(context.Background(), runner, DefaultLoads)
		Expect(err).To(MatchError(model.ErrConfiguration))
	})

	It("rejects an unknown integrator", func() {
		runner.Integrator = "nope"
		_, err := RegimeVariation(context.Background(), runner, DefaultLoads)
		Expect(err).To(HaveOccurred())
	})

	It("agrees with a fixed-step integrator", func() {
		adaptive, err := RegimeVariation(context.Background(), runner, []float64{1})
		Expect(err).NotTo(HaveOccurred())

		runner.Integrator = "rk4"
		fixed, err := RegimeVariation(context.Background(), runner, []float64{1})
		Expect(err).NotTo(HaveOccurred())

		a, _ := adaptive.Get(1)
		f, _ := fixed.Get(1)
		Expect(f.Final().State.ISub).To(BeNumerically("~", a.Final().State.ISub, 1e-6))
	})
})

var _ = Describe("KSensitivity", func() {
	var runner *Runner

	BeforeEach(func() {
		runner = NewRunner(model.DefaultParameters(), shortConfig())
	})

	It("returns one sorted curve per k", func() {
		loads := Linspace(0, 5, 6)
		curves, err := KSensitivity(context.Background(), runner, DefaultKValues, loads)
		Expect(err).NotTo(HaveOccurred())
		Expect(curves).To(HaveLen(len(DefaultKValues)))

		for i, c := range curves {
			Expect(c.K).To(Equal(DefaultKValues[i]))
			Expect(c.Points).To(HaveLen(len(loads)))
			for j, pt := range c.Points {
				Expect(pt.Load).To(Equal(loads[j]))
				Expect(pt.Peak).To(BeNumerically(">=", 0))
			}
		}
	})

	It("does not modify the base parameters", func() {
		_, err := KSensitivity(context.Background(), runner, []float64{0.5}, []float64{1})
		Expect(err).NotTo(HaveOccurred())
		Expect(runner.Params.K).To(Equal(1.2))
	})

	It("rejects a negative k before running", func() {
		_, err := KSensitivity(context.Background(), runner, []float64{1, -1}, []float64{1})
		Expect(err).To(MatchError(model.ErrConfiguration))
		Expect(err.Error()).To(ContainSubstring("k=-1"))
	})
})

var _ = Describe("Linspace", func() {
	It("includes both endpoints", func() {
		xs := Linspace(0, 5, 20)
		Expect(xs).To(HaveLen(20))
		Expect(xs[0]).To(Equal(0.0))
		Expect(xs[19]).To(Equal(5.0))
	})

	It("handles degenerate counts", func() {
		Expect(Linspace(0, 1, 0)).To(BeEmpty())
		Expect(Linspace(2, 3, 1)).To(Equal([]float64{2}))
	})
})
