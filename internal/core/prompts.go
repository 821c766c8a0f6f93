package core

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

var ErrNoPrompts = errors.New("prompt pool is empty")

// DefaultPrompts is the built-in drawing prompt set.
var DefaultPrompts = []string{
	"A cat wearing a hat", "Pizza with unusual toppings", "Robot doing yoga",
	"Superhero walking a dog", "Alien playing guitar", "Dragon reading a book",
	"Penguin surfing", "Wizard making coffee", "Dinosaur riding a bicycle",
}

// PromptPool is an immutable set of drawing prompts.
// Draws are uniform with replacement; repeats are allowed.
type PromptPool struct {
	prompts []string
}

func NewPromptPool(prompts []string) (*PromptPool, error) {
	if len(prompts) == 0 {
		return nil, ErrNoPrompts
	}
	cp := make([]string, len(prompts))
	copy(cp, prompts)
	return &PromptPool{prompts: cp}, nil
}

func (p *PromptPool) Draw() string {
	return p.prompts[rand.IntN(len(p.prompts))]
}

func (p *PromptPool) Len() int { return len(p.prompts) }

// LoadPromptsFile reads a file where each line is one prompt.
// Blank lines are skipped.
func LoadPromptsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prompts file %s: %w", path, err)
	}
	defer file.Close()

	var prompts []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read prompts file %s: %w", path, err)
	}
	return prompts, nil
}
