package lifecycle

// 检验单状态迁移表（不含重置,重置可从任意状态回到草稿）
var inspectionTransitions = map[InspectionState][]InspectionState{
	StateDraft:      {StateInProgress, StateCompleted, StateCancelled},
	StateInProgress: {StateCompleted, StateCancelled},
	StateCompleted:  {StateSent, StateCancelled},
	StateSent:       {},
	StateCancelled:  {},
}

// CanTransitionTo 判断检验单能否迁移到目标状态
func (s InspectionState) CanTransitionTo(target InspectionState) bool {
	for _, allowed := range inspectionTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// 报价请求状态迁移表
// 任意状态都可标记为 lost,lost 为终态
var quoteTransitions = map[QuoteState][]QuoteState{
	QuoteNew:       {QuoteContacted, QuoteQuoted, QuoteConverted, QuoteLost},
	QuoteContacted: {QuoteQuoted, QuoteConverted, QuoteLost},
	QuoteQuoted:    {QuoteConverted, QuoteLost},
	QuoteConverted: {QuoteLost},
	QuoteLost:      {},
}

// CanTransitionTo 判断报价请求能否迁移到目标状态
func (s QuoteState) CanTransitionTo(target QuoteState) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Terminal 是否为终态
func (s QuoteState) Terminal() bool {
	return len(quoteTransitions[s]) == 0
}

func invalidInspectionTransition(from, to InspectionState) error {
	return newError(CodeInvalidTransition, "cannot move inspection from %s to %s", from, to)
}

func invalidQuoteTransition(from, to QuoteState) error {
	return newError(CodeInvalidTransition, "cannot move quote request from %s to %s", from, to)
}
