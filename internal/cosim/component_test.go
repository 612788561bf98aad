package cosim

import (
	"bytes"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynfmu/internal/config"
	"github.com/san-kum/dynfmu/internal/fmu"
)

func mustPreset(name string) *config.Config {
	cfg, err := config.GetPreset(name)
	Expect(err).NotTo(HaveOccurred())
	return cfg
}

func initialize(c *Component) {
	Expect(c.SetupExperiment(0, false, 0)).To(Equal(fmu.StatusOK))
	Expect(c.EnterInitializationMode()).To(Equal(fmu.StatusOK))
	Expect(c.ExitInitializationMode()).To(Equal(fmu.StatusOK))
}

func readReal(c *Component, name string) float64 {
	x, err := c.GetReal(name)
	Expect(err).NotTo(HaveOccurred(), name)
	return x
}

var _ = Describe("Component", func() {
	var comp *Component

	BeforeEach(func() {
		var err error
		comp, err = New(mustPreset("box_and_sphere"), fmu.WithLogger(quietLogger()))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("shape projection", func() {
		It("exposes a box and a sphere as two visualizers", func() {
			names := comp.Registry().Names()
			for _, k := range []string{"0", "1"} {
				Expect(names).To(ContainElements(poseNames(k)))
				Expect(names).To(ContainElements(
					"VISUALIZER["+k+"].shape.type",
					"VISUALIZER["+k+"].shape.owner_id",
					"VISUALIZER["+k+"].shape.owner",
				))
			}

			tag, err := comp.GetString("VISUALIZER[0].shape.type")
			Expect(err).NotTo(HaveOccurred())
			Expect(tag).To(Equal("ChVisualShapeBox"))
			tag, err = comp.GetString("VISUALIZER[1].shape.type")
			Expect(err).NotTo(HaveOccurred())
			Expect(tag).To(Equal("ChVisualShapeSphere"))

			owner, err := comp.GetString("VISUALIZER[1].shape.owner")
			Expect(err).NotTo(HaveOccurred())
			Expect(owner).To(Equal("body"))
			id, err := comp.GetInteger("VISUALIZER[1].shape.owner_id")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(BeEquivalentTo(comp.System().SearchBody("body").Identifier()))

			Expect(readReal(comp, "VISUALIZER[0].shape.lengths.x")).To(Equal(1.0))
			Expect(readReal(comp, "VISUALIZER[1].shape.radius")).To(Equal(0.3))
			Expect(comp.Registry().Filter("VISUALIZER[2]")).To(BeEmpty())
		})

		It("places shapes in world coordinates", func() {
			Expect(readReal(comp, "VISUALIZER[0].frame.pos.z")).To(BeNumerically("~", 1, 1e-12))
			Expect(readReal(comp, "VISUALIZER[1].frame.pos.z")).To(BeNumerically("~", 1.5, 1e-12))
			Expect(readReal(comp, "VISUALIZER[1].frame.rot.e0")).To(BeNumerically("~", 1, 1e-12))
		})

		It("reproduces the same names after clearing and rebinding", func() {
			before := comp.Registry().Names()
			comp.ProjectShapes()
			Expect(comp.Registry().Names()).To(Equal(before))
			Expect(comp.Projector().Count()).To(Equal(2))
		})

		It("rejects writes to shape variables", func() {
			Expect(comp.SetString("VISUALIZER[0].shape.type", "x")).To(MatchError(fmu.ErrNotWritable))
			Expect(comp.SetReal("VISUALIZER[0].frame.pos.x", 3)).To(MatchError(fmu.ErrNotWritable))
		})
	})

	Describe("stepping", func() {
		It("moves the visualizers with the body", func() {
			initialize(comp)
			Expect(comp.DoStep(0, 0.1, true)).To(Equal(fmu.StatusOK))

			z := readReal(comp, "body.frame.pos.z")
			Expect(z).To(BeNumerically("<", 1))
			Expect(z).To(BeNumerically("~", 1-0.5*9.81*0.01, 1e-6))
			Expect(readReal(comp, "VISUALIZER[0].frame.pos.z")).To(BeNumerically("~", z, 1e-12))
			Expect(readReal(comp, "VISUALIZER[1].frame.pos.z")).To(BeNumerically("~", z+0.5, 1e-12))
			Expect(readReal(comp, "body.frame.pos_dt.z")).To(BeNumerically("~", -0.981, 1e-6))
			Expect(readReal(comp, "time")).To(BeNumerically("~", 0.1, 1e-12))
			Expect(comp.System().Time()).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("honours gravity set as a parameter before initialization", func() {
			Expect(comp.SetReal("G_acc.z", 0)).To(Succeed())
			initialize(comp)
			Expect(comp.DoStep(0, 0.1, true)).To(Equal(fmu.StatusOK))
			Expect(readReal(comp, "body.frame.pos.z")).To(BeNumerically("~", 1, 1e-12))
			Expect(comp.SetReal("G_acc.z", -1)).To(MatchError(fmu.ErrNotWritable))
		})

		It("restarts the run after a reset", func() {
			initialize(comp)
			Expect(comp.DoStep(0, 0.1, true)).To(Equal(fmu.StatusOK))
			first := readReal(comp, "body.frame.pos.z")
			Expect(readReal(comp, "VISUALIZER[0].frame.pos.z")).To(BeNumerically("~", first, 1e-12))

			Expect(comp.Reset()).To(Equal(fmu.StatusOK))
			Expect(comp.System().Time()).To(Equal(0.0))
			Expect(readReal(comp, "body.frame.pos.z")).To(BeNumerically("~", 1, 1e-12))
			Expect(readReal(comp, "VISUALIZER[0].frame.pos.z")).To(BeNumerically("~", 1, 1e-12))

			initialize(comp)
			Expect(comp.DoStep(0, 0.1, true)).To(Equal(fmu.StatusOK))
			z := readReal(comp, "body.frame.pos.z")
			Expect(z).To(BeNumerically("~", first, 1e-12))
			Expect(readReal(comp, "VISUALIZER[0].frame.pos.z")).To(BeNumerically("~", z, 1e-12))
			Expect(readReal(comp, "VISUALIZER[1].frame.pos.z")).To(BeNumerically("~", z+0.5, 1e-12))
		})

		It("keeps the energy constant during free fall", func() {
			initialize(comp)
			e0 := readReal(comp, "energy")
			for i := 0; i < 10; i++ {
				Expect(comp.DoStep(comp.Time(), 0.01, true)).To(Equal(fmu.StatusOK))
			}
			Expect(readReal(comp, "energy")).To(BeNumerically("~", e0, 1e-6))
		})
	})

	Describe("model variable export", func() {
		It("archives the system once under sys", func() {
			comp.ExportModelVariables()
			n := comp.Registry().Len()

			name, err := comp.GetString("sys.bodies[0].name")
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("body"))
			Expect(comp.Registry().Names()).To(ContainElements(
				"sys.ch_time",
				"sys.G_acc.z",
				"sys.bodies[0].mass",
				"sys.bodies[0].frame.coord.pos.z",
				"sys.bodies[0].visual_model.shapes[1].radius",
			))
			Expect(comp.Registry().Filter("sys.bodies[0].system")).To(BeEmpty())

			comp.ExportModelVariables()
			Expect(comp.Registry().Len()).To(Equal(n))
		})

		It("writes a model description listing the outputs", func() {
			md := comp.ModelDescription(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
			var buf bytes.Buffer
			Expect(md.Encode(&buf)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring(`name="VISUALIZER[0].shape.type"`))
			Expect(buf.String()).To(ContainSubstring(`name="sys.ch_time"`))

			decoded, err := fmu.DecodeModelDescription(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.GUID).To(Equal(comp.GUID()))
		})
	})
})

var _ = Describe("New", func() {
	It("rejects an invalid configuration", func() {
		cfg := config.DefaultConfig()
		cfg.StepSize = 0
		_, err := New(cfg, fmu.WithLogger(quietLogger()))
		Expect(err).To(MatchError(config.ErrInvalidConfig))
	})

	DescribeTable("builds every preset",
		func(name string) {
			comp, err := New(mustPreset(name), fmu.WithLogger(quietLogger()))
			Expect(err).NotTo(HaveOccurred())
			initialize(comp)
			Expect(comp.DoStep(0, 0.05, true)).To(Equal(fmu.StatusOK))
		},
		Entry("pendulum", "pendulum"),
		Entry("box and sphere", "box_and_sphere"),
		Entry("spring", "spring"),
		Entry("spinning top", "spinning_top"),
		Entry("gallery", "gallery"),
	)

	It("tags every shape of the gallery", func() {
		comp, err := New(mustPreset("gallery"), fmu.WithLogger(quietLogger()))
		Expect(err).NotTo(HaveOccurred())
		var tags []string
		for k := range config.ShapeKinds {
			v, ok := comp.Registry().Lookup(fmt.Sprintf("VISUALIZER[%d].shape.type", k))
			Expect(ok).To(BeTrue())
			tags = append(tags, v.FormatValue())
		}
		Expect(tags).NotTo(ContainElement("ChVisualShapeUNKNOWN"))
		Expect(tags).To(HaveLen(12))
	})
})
