package view

// View renders itself to its output and reports how many terminal lines it
// produced, so the render loop knows how far to move the cursor back up.
type View interface {
	Render(width int) (lines int)
}

type CompositeView struct {
	views []View
}

func NewCompositeView(views []View) *CompositeView {
	return &CompositeView{views: views}
}

func (cv *CompositeView) Render(width int) int {
	totalLines := 0
	for _, v := range cv.views {
		totalLines += v.Render(width)
	}
	return totalLines
}
