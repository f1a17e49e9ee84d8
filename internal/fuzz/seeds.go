package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 16 << 10
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, src := range inlineSeeds {
		f.Add([]byte(src))
	}
}

// inlineSeeds cover the shapes the rules and the rewriter care about.
var inlineSeeds = []string{
	"",
	"x = 1\n",
	"try:\n    pass\nexcept:\n    pass\n",
	"try:\n    f()\nexcept (A, B) as e:\n    raise\nelse:\n    g()\nfinally:\n    h()\n",
	"def f():\n    '''doc'''\n    ...\n",
	"@dec\nasync def f(a, *args, b=1, **kw) -> int:\n    return a\n",
	"class C(Base, metaclass=M):\n    x: int = 0\n",
	"assert a == b, 'msg'\nassert not (a or b)\nassert -x < y <= z\n",
	"if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n",
	"for i in range(3):\n    continue\nelse:\n    break\n",
	"while x:\n    x -= 1\n",
	"with open(p) as f, lock:\n    pass\n",
	"match p:\n    case [x, y]:\n        pass\n",
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.py файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
