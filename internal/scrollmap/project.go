package scrollmap

// Project maps marked rows of a document with totalRows rows onto a gutter of
// height cells and returns the number of marks that land in each cell.
// Rows outside the document are ignored.
func Project(rows []int, totalRows, height int) []int {
	if height <= 0 {
		return nil
	}
	cells := make([]int, height)
	if totalRows <= 0 {
		return cells
	}
	for _, r := range rows {
		if r < 0 || r >= totalRows {
			continue
		}
		cells[r*height/totalRows]++
	}
	return cells
}
