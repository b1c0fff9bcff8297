package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valdris/riftkit/pkg/mesh"
	"github.com/valdris/riftkit/pkg/wgeo"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize a mesh or world geometry file",
	Long: `Print a summary of a mesh file. The format is picked from the
extension: .skn (skinned mesh), .scb (static object), .wgeo (world
geometry).

Example:
  riftkit info aatrox.skn`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		switch strings.ToLower(filepath.Ext(path)) {
		case ".skn":
			printSkinnedMeshInfo(path)
		case ".scb":
			printStaticObjectInfo(path)
		case ".wgeo":
			printWorldGeometryInfo(path)
		default:
			fmt.Printf("Error: unrecognized extension %q (expected .skn, .scb or .wgeo)\n", filepath.Ext(path))
		}
	},
}

func printSkinnedMeshInfo(path string) {
	m, err := mesh.ReadSkinnedMeshFile(path)
	if err != nil {
		fmt.Printf("Error reading skinned mesh: %v\n", err)
		return
	}
	fmt.Printf("Skinned mesh, %d submeshes\n", len(m.Submeshes))
	for i := range m.Submeshes {
		sub := &m.Submeshes[i]
		fmt.Printf("  %-32s %6d vertices %6d faces\n", sub.Name, len(sub.Vertices), len(sub.Indices)/3)
	}
}

func printStaticObjectInfo(path string) {
	obj, err := mesh.ReadStaticObjectFile(path)
	if err != nil {
		fmt.Printf("Error reading static object: %v\n", err)
		return
	}
	fmt.Printf("Static object %q, %d submeshes\n", obj.Name, len(obj.Submeshes))
	for i := range obj.Submeshes {
		sub := &obj.Submeshes[i]
		fmt.Printf("  %-32s %6d vertices %6d faces\n", sub.Name, len(sub.Vertices), len(sub.Indices)/3)
	}
}

func printWorldGeometryInfo(path string) {
	wg, err := wgeo.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading world geometry: %v\n", err)
		return
	}
	fmt.Printf("World geometry, %d models, %dx%d bucket grid\n",
		len(wg.Models), wg.BucketGrid.BucketsPerSide(), wg.BucketGrid.BucketsPerSide())
	for i := range wg.Models {
		model := &wg.Models[i]
		fmt.Printf("  %-24s %6d vertices %6d faces  %s\n",
			model.Material, len(model.Vertices), len(model.Indices)/3, model.Texture)
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
