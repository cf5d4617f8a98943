package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// A Scene is one bracketed set of exposures, which becomes one HDR and one
// falsecolor image.
type Scene struct {
	Name    string   // the input directory's name; empty for a single scene
	Inputs  []string // image files, in listing order
	TempDir string   // owned by this scene; intermediate files stay here
}

// planScenes works out what the run will do, before any of it is done.
// If the first input is a directory, every input must be one, and each is
// a scene; otherwise all the inputs are image files of a single scene.
// Every problem with the inputs is found here, so a bad directory stops
// the run before any scene has produced output.
func planScenes(s Settings) ([]Scene, bool, error) {
	if len(s.Inputs) == 0 {
		return nil, false, validationf("inputs", "no inputs given")
	}

	item, err := os.Stat(s.Inputs[0])
	if err != nil {
		return nil, false, filesystemErr("inputs", fmt.Errorf("stat %s: %v", s.Inputs[0], err))
	}

	if !item.IsDir() {
		for _, filename := range s.Inputs {
			if !IsSupported(filename) {
				return nil, false, validationf("inputs", "%s: unsupported file type %q", filename, filepath.Ext(filename))
			}
		}
		return []Scene{{Inputs: s.Inputs, TempDir: s.TempDir}}, false, nil
	}

	scenes := []Scene{}
	seen := map[string]int{}
	for _, dir := range s.Inputs {
		scene, err := loadDir(dir)
		if err != nil {
			return nil, true, err
		}

		// Two inputs called .../north would otherwise share a temp dir.
		tempName := scene.Name
		if seen[scene.Name]++; seen[scene.Name] > 1 {
			tempName = fmt.Sprintf("%s_%d", scene.Name, seen[scene.Name])
		}
		scene.TempDir = filepath.Join(s.TempDir, tempName)

		scenes = append(scenes, scene)
	}

	return scenes, true, nil
}

// loadDir lists the supported images in dir; anything else in there,
// including subdirs, is ignored.
func loadDir(dir string) (Scene, error) {
	scene := Scene{Name: filepath.Base(filepath.Clean(dir))}

	item, err := os.Stat(dir)
	if err != nil {
		return scene, filesystemErr("inputs", fmt.Errorf("stat %s: %v", dir, err))
	} else if !item.IsDir() {
		return scene, validationf("inputs", "%s: not a directory, but the first input was", dir)
	}

	contents, err := os.ReadDir(dir)
	if err != nil {
		return scene, filesystemErr("inputs", fmt.Errorf("readdir %s: %v", dir, err))
	}
	for _, content := range contents {
		if content.IsDir() || !IsSupported(content.Name()) {
			continue
		}
		scene.Inputs = append(scene.Inputs, filepath.Join(dir, content.Name()))
	}

	if len(scene.Inputs) == 0 {
		return scene, validationf("inputs", "%s: no supported images in directory", dir)
	}
	return scene, nil
}
