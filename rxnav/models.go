package rxnav

// Wire shapes of the RxNav JSON endpoints the client reads.

type conceptGroup struct {
	TTY               string    `json:"tty"`
	ConceptProperties []Concept `json:"conceptProperties"`
}

type drugsResponse struct {
	DrugGroup struct {
		Name         string         `json:"name"`
		ConceptGroup []conceptGroup `json:"conceptGroup"`
	} `json:"drugGroup"`
}

type idGroupResponse struct {
	IDGroup struct {
		Name     string   `json:"name"`
		RxNormID []string `json:"rxnormId"`
	} `json:"idGroup"`
}

type approximateResponse struct {
	ApproximateGroup struct {
		InputTerm string `json:"inputTerm"`
		Candidate []struct {
			RxCUI string `json:"rxcui"`
			Score string `json:"score"`
			Rank  string `json:"rank"`
		} `json:"candidate"`
	} `json:"approximateGroup"`
}

type relatedResponse struct {
	RelatedGroup struct {
		RxCUI        string         `json:"rxcui"`
		ConceptGroup []conceptGroup `json:"conceptGroup"`
	} `json:"relatedGroup"`
}

type classByRxcuiResponse struct {
	RxclassDrugInfoList struct {
		RxclassDrugInfo []struct {
			MinConcept struct {
				RxCUI string `json:"rxcui"`
				Name  string `json:"name"`
				TTY   string `json:"tty"`
			} `json:"minConcept"`
			RxclassMinConceptItem struct {
				ClassID   string `json:"classId"`
				ClassName string `json:"className"`
				ClassType string `json:"classType"`
			} `json:"rxclassMinConceptItem"`
			RelaSource string `json:"relaSource"`
		} `json:"rxclassDrugInfo"`
	} `json:"rxclassDrugInfoList"`
}

func flatten(groups []conceptGroup) []Concept {
	var out []Concept
	for _, g := range groups {
		for _, c := range g.ConceptProperties {
			if c.TTY == "" {
				c.TTY = g.TTY
			}
			out = append(out, c)
		}
	}
	return out
}
