// Package category 实现附件类别策略：白名单校验与单值/多值分类.
//
// 分类是类别名的纯函数，缓存键形状与元数据唯一性语义都依赖它，
// 任何涉及这两者的代码都必须先咨询本包，而不是散落的字符串比较.
package category

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yeisme/attachvault/pkg/configs"
)

// ErrInvalidCategory 类别不在白名单内.
var ErrInvalidCategory = errors.New("invalid category")

// Kind 类别的取值语义.
type Kind int

const (
	// Singleton 每个实体至多一个附件.
	Singleton Kind = iota
	// Multi 每个实体可挂任意多个附件.
	Multi
)

func (k Kind) String() string {
	if k == Multi {
		return "multi"
	}

	return "singleton"
}

// Policy 类别策略，构造后只读.
type Policy struct {
	allowed map[string]struct{}
	sorted  []string // 白名单的有序副本，用于错误信息
	multi   string
}

// NewPolicy 创建类别策略.multi 为多值类别名，其余类别均为单值.
func NewPolicy(allowed []string, multi string) *Policy {
	p := &Policy{
		allowed: make(map[string]struct{}, len(allowed)),
		sorted:  make([]string, 0, len(allowed)),
		multi:   multi,
	}

	for _, c := range allowed {
		if _, dup := p.allowed[c]; dup {
			continue
		}

		p.allowed[c] = struct{}{}
		p.sorted = append(p.sorted, c)
	}

	sort.Strings(p.sorted)

	return p
}

// FromConfig 由附件业务配置构造策略.
func FromConfig(cfg *configs.FilesConfig) *Policy {
	return NewPolicy(cfg.AllowedCategories, cfg.MultiCategory)
}

// Validate 校验类别是否在白名单内.
// 错误信息按字典序列出全部合法类别，便于调用方自行纠正.
func (p *Policy) Validate(category string) error {
	if _, ok := p.allowed[category]; ok {
		return nil
	}

	return fmt.Errorf("%w: %q (allowed: %s)",
		ErrInvalidCategory, category, strings.Join(p.sorted, ", "))
}

// Classify 返回类别的取值语义.调用前应先 Validate.
func (p *Policy) Classify(category string) Kind {
	if category == p.multi {
		return Multi
	}

	return Singleton
}

// Allowed 返回白名单的有序副本.
func (p *Policy) Allowed() []string {
	out := make([]string, len(p.sorted))
	copy(out, p.sorted)

	return out
}
