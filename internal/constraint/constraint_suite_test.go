package constraint_test

import (
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kobrakid/partsim/internal/constraint"
	"github.com/kobrakid/partsim/internal/psys"
)

func TestConstraints(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Constraint Suite")
}

// one particle of unit mass at pos with velocity vel, as prev/curr pair
func pair(pos, vel [3]float64) (prev, curr psys.Buffer) {
	curr = psys.NewBuffer(1)
	curr.Set(0, psys.Mass, 1)
	for k := 0; k < 3; k++ {
		curr.Set(0, psys.PosX+k, pos[k])
		curr.Set(0, psys.VelX+k, vel[k])
	}
	prev = curr.Clone()
	return prev, curr
}

var tun = psys.Tuning{Dt: 1.0 / 60.0, Drag: 1.0}

var _ = Describe("Box", func() {
	var box *constraint.Box

	BeforeEach(func() {
		var err error
		box, err = constraint.NewBox(
			[3]float64{0, 0, 0}, [3]float64{1, 1, 1}, constraint.WallAll, 0.8, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects inverted bounds at construction", func() {
		_, err := constraint.NewBox(
			[3]float64{2, 0, 0}, [3]float64{1, 1, 1}, constraint.WallAll, 0.8, nil)
		Expect(err).To(MatchError(psys.ErrBadParam))
	})

	It("leaves a particle strictly inside untouched", func() {
		prev, curr := pair([3]float64{0.5, 0.5, 0.5}, [3]float64{0.1, -0.2, 0.3})
		want := curr.Clone()
		box.Constrain(prev, curr, tun)
		Expect([]float64(curr)).To(Equal([]float64(want)))
	})

	It("clamps a left-wall crossing and flips the velocity inward", func() {
		prev, curr := pair([3]float64{-1e-6, 0.5, 0.5}, [3]float64{-2, 0, 0})
		box.Constrain(prev, curr, tun)

		Expect(curr.At(0, psys.PosX)).To(Equal(0.0))
		Expect(curr.At(0, psys.VelX)).To(BeNumerically(">=", 0))
		// restitution scales the pre-step speed
		Expect(curr.At(0, psys.VelX)).To(BeNumerically("~", 0.8*2, 1e-12))
	})

	It("ignores a crossing when the velocity already points back inside", func() {
		prev, curr := pair([3]float64{-0.1, 0.5, 0.5}, [3]float64{1, 0, 0})
		box.Constrain(prev, curr, tun)
		Expect(curr.At(0, psys.PosX)).To(Equal(-0.1))
	})

	It("skips walls removed from the mask", func() {
		open, err := constraint.NewBox(
			[3]float64{0, 0, 0}, [3]float64{1, 1, 1},
			constraint.WallAll&^constraint.WallLeft, 0.8, nil)
		Expect(err).NotTo(HaveOccurred())

		prev, curr := pair([3]float64{-0.5, 0.5, 0.5}, [3]float64{-1, 0, 0})
		open.Constrain(prev, curr, tun)
		Expect(curr.At(0, psys.PosX)).To(Equal(-0.5))
	})

	It("repairs two axes on a corner exit", func() {
		prev, curr := pair([3]float64{-0.1, 0.5, -0.2}, [3]float64{-1, 0, -1})
		box.Constrain(prev, curr, tun)
		Expect(curr.At(0, psys.PosX)).To(Equal(0.0))
		Expect(curr.At(0, psys.PosZ)).To(Equal(0.0))
		Expect(curr.At(0, psys.VelX)).To(BeNumerically(">=", 0))
		Expect(curr.At(0, psys.VelZ)).To(BeNumerically(">=", 0))
	})

	It("applies live bound edits on the next call", func() {
		Expect(box.SetBounds([3]float64{-2, -2, -2}, [3]float64{2, 2, 2})).To(Succeed())
		prev, curr := pair([3]float64{-0.5, 0, 0}, [3]float64{-1, 0, 0})
		box.Constrain(prev, curr, tun)
		Expect(curr.At(0, psys.PosX)).To(Equal(-0.5))

		Expect(box.SetBounds([3]float64{3, 0, 0}, [3]float64{1, 1, 1})).NotTo(Succeed())
	})
})

var _ = Describe("ReversalBox", func() {
	It("reverses the offending velocity without clamping position", func() {
		rb, err := constraint.NewReversalBox(
			[3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 0.9, nil)
		Expect(err).NotTo(HaveOccurred())

		prev, curr := pair([3]float64{1.2, 0.5, 0.5}, [3]float64{2, 0, 0})
		rb.Constrain(prev, curr, tun)
		Expect(curr.At(0, psys.PosX)).To(Equal(1.2))
		Expect(curr.At(0, psys.VelX)).To(BeNumerically("~", -1.8, 1e-12))
	})

	It("hard-clamps the floor unconditionally", func() {
		rb, _ := constraint.NewReversalBox(
			[3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 0.9, nil)
		prev, curr := pair([3]float64{0.5, 0.5, -0.3}, [3]float64{0, 0, 0.5})
		rb.Constrain(prev, curr, tun)
		Expect(curr.At(0, psys.PosZ)).To(Equal(0.0))
	})
})

var _ = Describe("Sphere", func() {
	var sph *constraint.Sphere

	BeforeEach(func() {
		var err error
		sph, err = constraint.NewSphere([3]float64{0, 0, 0}, 1, 0.9, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a non-positive radius", func() {
		_, err := constraint.NewSphere([3]float64{}, 0, 0.9, nil)
		Expect(err).To(MatchError(psys.ErrBadParam))
	})

	It("projects an interior particle onto the surface", func() {
		prev, curr := pair([3]float64{0.3, 0, 0}, [3]float64{0, 2, 0})
		sph.Constrain(prev, curr, tun)

		d := math.Sqrt(curr.At(0, psys.PosX)*curr.At(0, psys.PosX) +
			curr.At(0, psys.PosY)*curr.At(0, psys.PosY) +
			curr.At(0, psys.PosZ)*curr.At(0, psys.PosZ))
		Expect(d).To(BeNumerically(">=", 1-1e-9))

		// velocity becomes radial, speed scaled by restitution
		Expect(curr.At(0, psys.VelX)).To(BeNumerically("~", 2*0.9, 1e-9))
		Expect(curr.At(0, psys.VelY)).To(BeNumerically("~", 0, 1e-9))
	})

	It("does not touch a particle on or beyond the surface", func() {
		prev, curr := pair([3]float64{0, 1.5, 0}, [3]float64{1, 0, 0})
		want := curr.Clone()
		sph.Constrain(prev, curr, tun)
		Expect([]float64(curr)).To(Equal([]float64(want)))
	})

	It("ejects a dead-center particle without producing NaN", func() {
		prev, curr := pair([3]float64{0, 0, 0}, [3]float64{0.5, 0, 0})
		sph.Constrain(prev, curr, tun)
		Expect(curr.IsValid()).To(BeTrue())
		Expect(curr.At(0, psys.PosZ)).To(Equal(1.0))
	})
})

var _ = Describe("Wrap", func() {
	It("re-enters at the opposite face with velocity unchanged", func() {
		w, err := constraint.NewWrap([3]float64{0, 0, 0}, [3]float64{1, 1, 1}, nil)
		Expect(err).NotTo(HaveOccurred())

		prev, curr := pair([3]float64{1.25, 0.5, 0.5}, [3]float64{3, -1, 2})
		w.Constrain(prev, curr, tun)

		Expect(curr.At(0, psys.PosX)).To(BeNumerically("~", 0.25, 1e-12))
		Expect(curr.At(0, psys.PosY)).To(Equal(0.5))
		Expect(curr.At(0, psys.PosZ)).To(Equal(0.5))
		Expect(curr.At(0, psys.VelX)).To(Equal(3.0))
		Expect(curr.At(0, psys.VelY)).To(Equal(-1.0))
	})

	It("wraps a negative exit", func() {
		w, _ := constraint.NewWrap([3]float64{0, 0, 0}, [3]float64{1, 1, 1}, nil)
		prev, curr := pair([3]float64{0.5, -0.25, 0.5}, [3]float64{0, 0, 0})
		w.Constrain(prev, curr, tun)
		Expect(curr.At(0, psys.PosY)).To(BeNumerically("~", 0.75, 1e-12))
	})
})

var _ = Describe("Outside", func() {
	It("pushes a particle back out through the face it crossed", func() {
		ob, err := constraint.NewOutside(
			[3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 1.0, nil)
		Expect(err).NotTo(HaveOccurred())

		// was left of the box, moved into it along x
		prev, curr := pair([3]float64{0.2, 0.5, 0.5}, [3]float64{2, 0, 0})
		prev.Set(0, psys.PosX, -0.1)
		ob.Constrain(prev, curr, tun)

		Expect(curr.At(0, psys.PosX)).To(Equal(0.0))
		Expect(curr.At(0, psys.VelX)).To(Equal(-2.0))
		Expect(curr.At(0, psys.PosY)).To(Equal(0.5))
	})

	It("leaves particles outside the obstacle alone", func() {
		ob, _ := constraint.NewOutside(
			[3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 1.0, nil)
		prev, curr := pair([3]float64{2, 2, 2}, [3]float64{1, 1, 1})
		want := curr.Clone()
		ob.Constrain(prev, curr, tun)
		Expect([]float64(curr)).To(Equal([]float64(want)))
	})
})

var _ = Describe("Pin", func() {
	It("forces position and zeroes velocity", func() {
		p, err := constraint.NewPin([3]float64{1, 2, 3}, []int{0})
		Expect(err).NotTo(HaveOccurred())

		prev, curr := pair([3]float64{9, 9, 9}, [3]float64{5, 5, 5})
		p.Constrain(prev, curr, tun)

		Expect(curr.At(0, psys.PosX)).To(Equal(1.0))
		Expect(curr.At(0, psys.PosY)).To(Equal(2.0))
		Expect(curr.At(0, psys.PosZ)).To(Equal(3.0))
		Expect(curr.Speed(0)).To(Equal(0.0))
	})
})
