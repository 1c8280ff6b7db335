package engine

// Clock 帧时钟
type Clock struct {
	Frame   int64
	Elapsed float64
	Delta   float64
}

func (c *Clock) advance(dt float64) {
	c.Frame++
	c.Elapsed += dt
	c.Delta = dt
}
