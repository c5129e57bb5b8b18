package pass

import (
	"github.com/daedaleanai/brammap/internal/netlist"
	"github.com/daedaleanai/brammap/internal/rules"
	"github.com/daedaleanai/brammap/log"
)

// Run drives the full pass (C7) over every module of a design: for each
// $mem cell it walks the match rules in order (C3+C4), invokes the
// assignment engine (C5) on the first accepted candidate, and on success
// tiles and rewires the netlist (C6). A memory for which no rule succeeds
// is left in place (NoMappingFound, §7) and is not an error.
func Run(lib *rules.Library, design *netlist.Design, order []string) error {
	for _, mod := range design.SelectedModules(order) {
		log.Log("Mapping memories in module %s.\n", mod.Name)
		log.IndentationLevel++

		for _, cell := range mod.Cells() {
			if cell.Type != netlist.MemCellType {
				continue
			}

			mem, err := netlist.ReadMemCell(cell)
			if err != nil {
				return err
			}

			log.Log("Mapping memory %s (%d words x %d bits, %d wr, %d rd).\n",
				cell.Name, mem.Size, mem.Width, len(mem.WritePorts), len(mem.ReadPorts))
			log.IndentationLevel++
			mapped, err := tryMemory(lib, mod, cell, mem)
			log.IndentationLevel--
			if err != nil {
				return err
			}

			if !mapped {
				log.Warning("No bram found for memory %s.\n", cell.Name)
			} else {
				log.Success("Mapped memory %s.\n", cell.Name)
			}
		}

		log.IndentationLevel--
	}
	return nil
}
