package obj

import (
	"bufio"
	"io"

	"github.com/ChicagoDave/citymesh/pkg/material"
)

// illumHighlight is the MTL illumination model with specular highlights.
const illumHighlight = "2"

// WriteMaterials writes one MTL block per palette entry in registry order.
func WriteMaterials(w io.Writer, reg *material.Registry) error {
	bw := bufio.NewWriter(w)
	for _, m := range reg.All() {
		ka := m.Ambient()
		bw.WriteString("newmtl " + m.Name + "\n")
		bw.WriteString("Ka " + formatFloat(ka[0]) + " " + formatFloat(ka[1]) + " " + formatFloat(ka[2]) + "\n")
		bw.WriteString("Kd " + formatFloat(m.Diffuse[0]) + " " + formatFloat(m.Diffuse[1]) + " " + formatFloat(m.Diffuse[2]) + "\n")
		ks := formatFloat(m.Specular)
		bw.WriteString("Ks " + ks + " " + ks + " " + ks + "\n")
		bw.WriteString("Ns " + formatFloat(m.Shininess) + "\n")
		bw.WriteString("d 1.0\n")
		bw.WriteString("illum " + illumHighlight + "\n")
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
