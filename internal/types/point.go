// README: Geographic coordinate pair shared across modules.
package types

type Point struct {
	Lat float64
	Lng float64
}
