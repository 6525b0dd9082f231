package classifier

import (
	"errors"
	"fmt"

	"github.com/smspocoredondo/DashUPA/internal/models"
	"github.com/smspocoredondo/DashUPA/internal/textutil"
)

// KeywordProfile 离院原因关键字配置
// 匹配顺序：先 Resolved，再 NotResolved，第一个命中的关键字生效
type KeywordProfile struct {
	Name        string   `yaml:"name" json:"name"`
	Resolved    []string `yaml:"resolved" json:"resolved"`
	NotResolved []string `yaml:"not_resolved" json:"not_resolved"`
}

// Built-in keyword profile names.
const (
	KeywordProfileStrict = "strict"
	KeywordProfileBroad  = "broad"
)

// StrictKeywords 仅包含标准离院原因
func StrictKeywords() KeywordProfile {
	return KeywordProfile{
		Name: KeywordProfileStrict,
		Resolved: []string{
			"ALTA COM PRESCRIÇÃO",
			"ALTA APÓS OBSERVAÇÃO",
			"ENCAMINHAMENTO PARA ATENÇÃO BÁSICA",
			"CASO ENCERRADO",
			"ALTA",
		},
		NotResolved: []string{
			"TRANSFERÊNCIA",
			"REGULAÇÃO",
			"INTERNAÇÃO",
			"ÓBITO",
			"EVASÃO",
		},
	}
}

// BroadKeywords 在 strict 基础上增加各导出版本中出现过的写法
func BroadKeywords() KeywordProfile {
	p := StrictKeywords()
	p.Name = KeywordProfileBroad
	p.Resolved = append(p.Resolved,
		"MEDICAÇÃO E ALTA",
		"ENCAMINHADO À UBS",
		"ENCAMINHAMENTO UBS",
		"ATENÇÃO PRIMÁRIA",
		"ENCERRAMENTO",
		"CONCLUÍDO",
	)
	p.NotResolved = append(p.NotResolved,
		"TRANSFERIDO",
		"REGULADO",
		"INTERNADO",
		"REMOÇÃO",
		"FALECIMENTO",
		"EVADIU",
		"ABANDONO",
	)
	return p
}

// DefaultKeywordProfiles 内置关键字配置
func DefaultKeywordProfiles() map[string]KeywordProfile {
	return map[string]KeywordProfile{
		KeywordProfileStrict: StrictKeywords(),
		KeywordProfileBroad:  BroadKeywords(),
	}
}

// ErrInvalidKeywordProfile 关键字配置不合法
var ErrInvalidKeywordProfile = errors.New("invalid keyword profile")

// Validate 名称不能为空，且至少有一个非空关键字
func (p KeywordProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidKeywordProfile)
	}
	if len(foldKeywords(p.Resolved))+len(foldKeywords(p.NotResolved)) == 0 {
		return fmt.Errorf("%w %q: no keywords", ErrInvalidKeywordProfile, p.Name)
	}
	return nil
}

type keyword struct {
	raw    string
	folded string
}

// OutcomeClassifier 离院结局分类器
type OutcomeClassifier struct {
	name        string
	resolved    []keyword
	notResolved []keyword
}

// NewOutcomeClassifier 创建分类器；空关键字会被忽略
func NewOutcomeClassifier(p KeywordProfile) *OutcomeClassifier {
	return &OutcomeClassifier{
		name:        p.Name,
		resolved:    foldKeywords(p.Resolved),
		notResolved: foldKeywords(p.NotResolved),
	}
}

func foldKeywords(words []string) []keyword {
	out := make([]keyword, 0, len(words))
	for _, w := range words {
		f := textutil.Fold(w)
		if f == "" {
			continue
		}
		out = append(out, keyword{raw: w, folded: f})
	}
	return out
}

// Name 返回配置名
func (c *OutcomeClassifier) Name() string {
	return c.name
}

// Classify 将离院原因映射为结局分类
func (c *OutcomeClassifier) Classify(reason string) models.Outcome {
	outcome, _ := c.Match(reason)
	return outcome
}

// Match 同 Classify，并返回命中的关键字（未命中为空）
func (c *OutcomeClassifier) Match(reason string) (models.Outcome, string) {
	folded := textutil.Fold(reason)
	if folded == "" {
		return models.OutcomeUndefined, ""
	}
	for _, k := range c.resolved {
		if containsKeyword(folded, k.folded) {
			return models.OutcomeResolvedOnSite, k.raw
		}
	}
	for _, k := range c.notResolved {
		if containsKeyword(folded, k.folded) {
			return models.OutcomeNotResolvedOnSite, k.raw
		}
	}
	return models.OutcomeUndefined, ""
}
