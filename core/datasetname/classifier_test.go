package datasetname

import (
	"fmt"
)

func makeDefault() *Classifier {
	c, err := MakeClassifier(DefaultPatternRules(), DefaultPublicGroups())
	if err != nil {
		panic(err)
	}
	return c
}

func Example_classify() {
	c := makeDefault()

	for _, stem := range []string{
		"DCLP", "DCLP3", "dclp5", "DCLP3x",
		"Loop_Part1_of_4", "loop_part12_of_12", "Loop_Part_of_4",
		"Tidepool-JDRF-Study", "Tidepool-JDRF-", "My-Tidepool-JDRF-Study",
		"Flair", "FLAIR", "OpenAPS", "ShanghaiT1DM", "CTR3", "PEDAP", "OhioT1DM",
		"T1DEXI", "T1DEXIP", "AZT1D", "DiaTrend", "HUPA-UCM", "IOBP2",
		"Foo123", "  Spaced  ", "",
	} {
		fmt.Printf("\"%v\" -> \"%v\"\n", stem, c.Classify(stem))
	}

	// Output:
	// "DCLP" -> "DCLP"
	// "DCLP3" -> "DCLP"
	// "dclp5" -> "DCLP"
	// "DCLP3x" -> "DCLP3x"
	// "Loop_Part1_of_4" -> "Loop study public dataset"
	// "loop_part12_of_12" -> "Loop study public dataset"
	// "Loop_Part_of_4" -> "Loop_Part_of_4"
	// "Tidepool-JDRF-Study" -> "JDRF_CGM_RCT"
	// "Tidepool-JDRF-" -> "JDRF_CGM_RCT"
	// "My-Tidepool-JDRF-Study" -> "My-Tidepool-JDRF-Study"
	// "Flair" -> "FLAIRPublicDataSet"
	// "FLAIR" -> "FLAIRPublicDataSet"
	// "OpenAPS" -> "OpenAPS Data"
	// "ShanghaiT1DM" -> "Shanghai"
	// "CTR3" -> "CTR3"
	// "PEDAP" -> "PEDAP Public Dataset"
	// "OhioT1DM" -> "OhioT1DM"
	// "T1DEXI" -> "JAEB_ilet_trial"
	// "T1DEXIP" -> "T1DEXI"
	// "AZT1D" -> "AIDE_T1D"
	// "DiaTrend" -> "DiaTrend"
	// "HUPA-UCM" -> "HUPA-UCM"
	// "IOBP2" -> "IOBP2"
	// "Foo123" -> "Foo123"
	// "  Spaced  " -> "Spaced"
	// "" -> ""
}

func Example_visibilityOf() {
	c := makeDefault()

	for _, g := range []string{"FLAIRPublicDataSet", "Shanghai", "DCLP", "flairpublicdataset", "Foo123"} {
		fmt.Println(g, c.VisibilityOf(g))
	}

	// Output:
	// FLAIRPublicDataSet public
	// Shanghai public
	// DCLP private
	// flairpublicdataset private
	// Foo123 private
}

func Example_makeClassifier_Extended() {
	// Tables are data, extending them needs no code change
	rules := append(DefaultPatternRules(), PatternRule{Pattern: `NewStudy\d+`, Group: "New Study"})
	c, err := MakeClassifier(rules, append(DefaultPublicGroups(), "New Study"))
	fmt.Println(err)
	fmt.Println(c.Classify("newstudy42"), c.VisibilityOf(c.Classify("newstudy42")))

	_, err = MakeClassifier([]PatternRule{{Pattern: "(", Group: "X"}}, nil)
	fmt.Println(err != nil)

	_, err = MakeClassifier([]PatternRule{{Pattern: "abc"}}, nil)
	fmt.Println(err)

	// Output:
	// <nil>
	// New Study public
	// true
	// Pattern rule 0 (abc) has no group name
}

func Example_stemOf() {
	fmt.Println(StemOf("processed_data_final_expanded/DCLP3.csv", "processed_data_final_expanded/", ".csv"))
	fmt.Println(StemOf("processed_data_final_expanded/Flair.CSV", "processed_data_final_expanded/", ".csv"))
	fmt.Println(StemOf("processed_data_final_expanded/readme.txt", "processed_data_final_expanded/", ".csv"))
	fmt.Println(StemOf("other/DCLP3.csv", "processed_data_final_expanded/", ".csv"))
	fmt.Println(ArchiveStem("archives/public-dataset.zip"))

	// Output:
	// DCLP3 true
	// Flair true
	//  false
	//  false
	// public-dataset
}
