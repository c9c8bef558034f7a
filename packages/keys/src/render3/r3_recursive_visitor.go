package render3

// RecursiveVisitor visits every node of a tree. Embed it and override the
// methods of interest; set Self to the outer visitor so the recursion goes
// through the overrides.
type RecursiveVisitor struct {
	Self Visitor
}

func (r *RecursiveVisitor) self() Visitor {
	if r.Self != nil {
		return r.Self
	}
	return r
}

func (r *RecursiveVisitor) visitAll(nodes []Node) {
	VisitAll(r.self(), nodes)
}

func (r *RecursiveVisitor) VisitElement(element *Element) interface{} {
	v := r.self()
	for _, a := range element.Attributes {
		a.Visit(v)
	}
	for _, i := range element.Inputs {
		i.Visit(v)
	}
	for _, o := range element.Outputs {
		o.Visit(v)
	}
	for _, ref := range element.References {
		ref.Visit(v)
	}
	r.visitAll(element.Children)
	return nil
}

func (r *RecursiveVisitor) VisitTemplate(template *Template) interface{} {
	v := r.self()
	for _, a := range template.Attributes {
		a.Visit(v)
	}
	for _, i := range template.Inputs {
		i.Visit(v)
	}
	for _, o := range template.Outputs {
		o.Visit(v)
	}
	r.visitAll(template.TemplateAttrs)
	for _, ref := range template.References {
		ref.Visit(v)
	}
	for _, variable := range template.Variables {
		variable.Visit(v)
	}
	r.visitAll(template.Children)
	return nil
}

func (r *RecursiveVisitor) VisitContent(content *Content) interface{} {
	r.visitAll(content.Children)
	return nil
}

func (r *RecursiveVisitor) VisitVariable(variable *Variable) interface{}            { return nil }
func (r *RecursiveVisitor) VisitReference(reference *Reference) interface{}         { return nil }
func (r *RecursiveVisitor) VisitTextAttribute(attribute *TextAttribute) interface{} { return nil }
func (r *RecursiveVisitor) VisitBoundAttribute(attribute *BoundAttribute) interface{} {
	return nil
}
func (r *RecursiveVisitor) VisitBoundEvent(event *BoundEvent) interface{} { return nil }
func (r *RecursiveVisitor) VisitText(text *Text) interface{}              { return nil }
func (r *RecursiveVisitor) VisitBoundText(text *BoundText) interface{}    { return nil }
func (r *RecursiveVisitor) VisitComment(comment *Comment) interface{}     { return nil }

func (r *RecursiveVisitor) VisitDeferredBlock(deferred *DeferredBlock) interface{} {
	v := r.self()
	for _, triggers := range [][]*DeferredTrigger{deferred.Triggers, deferred.PrefetchTriggers, deferred.HydrateTriggers} {
		for _, trigger := range triggers {
			trigger.Visit(v)
		}
	}
	r.visitAll(deferred.Children)
	if deferred.Placeholder != nil {
		deferred.Placeholder.Visit(v)
	}
	if deferred.Loading != nil {
		deferred.Loading.Visit(v)
	}
	if deferred.Error != nil {
		deferred.Error.Visit(v)
	}
	return nil
}

func (r *RecursiveVisitor) VisitDeferredBlockPlaceholder(block *DeferredBlockPlaceholder) interface{} {
	r.visitAll(block.Children)
	return nil
}

func (r *RecursiveVisitor) VisitDeferredBlockError(block *DeferredBlockError) interface{} {
	r.visitAll(block.Children)
	return nil
}

func (r *RecursiveVisitor) VisitDeferredBlockLoading(block *DeferredBlockLoading) interface{} {
	r.visitAll(block.Children)
	return nil
}

func (r *RecursiveVisitor) VisitDeferredTrigger(trigger *DeferredTrigger) interface{} {
	return nil
}

func (r *RecursiveVisitor) VisitSwitchBlock(block *SwitchBlock) interface{} {
	v := r.self()
	for _, c := range block.Cases {
		c.Visit(v)
	}
	return nil
}

func (r *RecursiveVisitor) VisitSwitchBlockCase(block *SwitchBlockCase) interface{} {
	r.visitAll(block.Children)
	return nil
}

func (r *RecursiveVisitor) VisitForLoopBlock(block *ForLoopBlock) interface{} {
	v := r.self()
	if block.Item != nil {
		block.Item.Visit(v)
	}
	for _, variable := range block.ContextVariables {
		variable.Visit(v)
	}
	r.visitAll(block.Children)
	if block.Empty != nil {
		block.Empty.Visit(v)
	}
	return nil
}

func (r *RecursiveVisitor) VisitForLoopBlockEmpty(block *ForLoopBlockEmpty) interface{} {
	r.visitAll(block.Children)
	return nil
}

func (r *RecursiveVisitor) VisitIfBlock(block *IfBlock) interface{} {
	v := r.self()
	for _, branch := range block.Branches {
		branch.Visit(v)
	}
	return nil
}

func (r *RecursiveVisitor) VisitIfBlockBranch(block *IfBlockBranch) interface{} {
	if block.ExpressionAlias != nil {
		block.ExpressionAlias.Visit(r.self())
	}
	r.visitAll(block.Children)
	return nil
}

func (r *RecursiveVisitor) VisitUnknownBlock(block *UnknownBlock) interface{} { return nil }

func (r *RecursiveVisitor) VisitLetDeclaration(decl *LetDeclaration) interface{} { return nil }
