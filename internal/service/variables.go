package service

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"gamification_backend/internal/model"
)

// GenerateVariables 从变量规则和种子生成取值。
// 同一 (specs, seed) 的结果完全一致：每次调用构造独立的随机源，绝不共享进程级状态。
// 单个变量的失败只记入 errors，不影响其余变量的生成。
func GenerateVariables(specs []model.VariableSpec, seed int64) (map[string]string, []string) {
	values := make(map[string]string)
	var errs []string

	if len(specs) == 0 {
		return values, errs
	}

	rng := rand.New(rand.NewSource(seed))
	for _, spec := range specs {
		value, err := generateVariable(rng, spec)
		if err != nil {
			errs = append(errs, fmt.Sprintf("variable %q: %v", spec.Name, err))
			continue
		}
		values[spec.Name] = value
	}

	return values, errs
}

func generateVariable(rng *rand.Rand, spec model.VariableSpec) (string, error) {
	if spec.Name == "" {
		return "", fmt.Errorf("missing name")
	}

	switch spec.Type {
	case "int":
		min, max, err := intBounds(spec)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(min+rng.Int63n(max-min+1), 10), nil
	case "float":
		if spec.Min == nil || spec.Max == nil || *spec.Max < *spec.Min {
			return "", fmt.Errorf("invalid range")
		}
		v := *spec.Min + rng.Float64()*(*spec.Max-*spec.Min)
		precision := spec.Precision
		if precision <= 0 {
			precision = 2
		}
		scale := math.Pow10(precision)
		return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', -1, 64), nil
	case "choice":
		if len(spec.Options) == 0 {
			return "", fmt.Errorf("empty option set")
		}
		return spec.Options[rng.Intn(len(spec.Options))], nil
	default:
		return "", fmt.Errorf("unknown type %q", spec.Type)
	}
}

func intBounds(spec model.VariableSpec) (int64, int64, error) {
	if spec.Min == nil || spec.Max == nil {
		return 0, 0, fmt.Errorf("missing bounds")
	}
	min, max := int64(*spec.Min), int64(*spec.Max)
	if max < min {
		return 0, 0, fmt.Errorf("invalid range")
	}
	return min, max, nil
}

// RenderText 将 {{name}} 占位符替换为变量值。
// 未解析的占位符原样保留，变量生成部分失败时题面仍可显示。
func RenderText(template string, values map[string]string) string {
	if template == "" || len(values) == 0 {
		return template
	}

	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// VisibleChoices 计算一个关联可见的选项子集与顺序：
// 按录入顺序截取前 visible_distractor_count+1 个，用关联种子洗牌后渲染。
// 同一种子的结果在重复查看间保持稳定，不同种子看到不同的子集和顺序。
func VisibleChoices(choices []model.Choice, visibleDistractorCount int, seed int64, values map[string]string) []model.Choice {
	keep := visibleDistractorCount + 1
	if keep > len(choices) {
		keep = len(choices)
	}
	if keep < 0 {
		keep = 0
	}

	visible := make([]model.Choice, keep)
	copy(visible, choices[:keep])

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(visible), func(i, j int) {
		visible[i], visible[j] = visible[j], visible[i]
	})

	for i := range visible {
		visible[i].Text = RenderText(visible[i].Text, values)
	}
	return visible
}
