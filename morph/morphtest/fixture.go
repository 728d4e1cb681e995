// Package morphtest provides a small in-memory paradigm dictionary for tests.
package morphtest

import "github.com/RussianNLP/RuBLiMP/morph"

func nounParadigm(forms [12]string, tag string) [][2]string {
	cases := []string{"nomn", "gent", "datv", "accs", "ablt", "loct"}
	cells := make([][2]string, 0, len(forms))
	for i, c := range cases {
		cells = append(cells, [2]string{forms[i], tag + " sing," + c})
	}
	for i, c := range cases {
		cells = append(cells, [2]string{forms[6+i], tag + " plur," + c})
	}
	return cells
}

// NewDictionary returns paradigms for девушка, книга, подруга, стол, читать,
// быть, сам and новый.
func NewDictionary() *morph.Dictionary {
	d := morph.NewDictionary()

	d.AddLexeme("1", "девушка", nounParadigm([12]string{
		"девушка", "девушки", "девушке", "девушку", "девушкой", "девушке",
		"девушки", "девушек", "девушкам", "девушек", "девушками", "девушках",
	}, "NOUN,anim,femn")...)

	d.AddLexeme("2", "книга", nounParadigm([12]string{
		"книга", "книги", "книге", "книгу", "книгой", "книге",
		"книги", "книг", "книгам", "книги", "книгами", "книгах",
	}, "NOUN,inan,femn")...)

	d.AddLexeme("3", "читать",
		[2]string{"читать", "INFN,impf,tran"},
		[2]string{"читал", "VERB,impf,tran masc,sing,past,indc"},
		[2]string{"читала", "VERB,impf,tran femn,sing,past,indc"},
		[2]string{"читало", "VERB,impf,tran neut,sing,past,indc"},
		[2]string{"читали", "VERB,impf,tran plur,past,indc"},
		[2]string{"читаю", "VERB,impf,tran sing,1per,pres,indc"},
		[2]string{"читаешь", "VERB,impf,tran sing,2per,pres,indc"},
		[2]string{"читает", "VERB,impf,tran sing,3per,pres,indc"},
		[2]string{"читаем", "VERB,impf,tran plur,1per,pres,indc"},
		[2]string{"читаете", "VERB,impf,tran plur,2per,pres,indc"},
		[2]string{"читают", "VERB,impf,tran plur,3per,pres,indc"},
		[2]string{"читай", "VERB,impf,tran sing,impr,excl"},
		[2]string{"читайте", "VERB,impf,tran plur,impr,excl"},
	)

	d.AddLexeme("4", "быть",
		[2]string{"быть", "INFN,impf,intr"},
		[2]string{"был", "VERB,impf,intr masc,sing,past,indc"},
		[2]string{"была", "VERB,impf,intr femn,sing,past,indc"},
		[2]string{"было", "VERB,impf,intr neut,sing,past,indc"},
		[2]string{"были", "VERB,impf,intr plur,past,indc"},
		[2]string{"есть", "VERB,impf,intr sing,3per,pres,indc"},
	)

	d.AddLexeme("5", "сам",
		[2]string{"сам", "ADJF,Apro,Subx masc,sing,nomn"},
		[2]string{"самого", "ADJF,Apro,Subx masc,sing,gent"},
		[2]string{"самому", "ADJF,Apro,Subx masc,sing,datv"},
		[2]string{"самого", "ADJF,Apro,Subx anim,masc,sing,accs"},
		[2]string{"самим", "ADJF,Apro,Subx masc,sing,ablt"},
		[2]string{"самом", "ADJF,Apro,Subx masc,sing,loct"},
		[2]string{"сама", "ADJF,Apro,Subx femn,sing,nomn"},
		[2]string{"самой", "ADJF,Apro,Subx femn,sing,gent"},
		[2]string{"самой", "ADJF,Apro,Subx femn,sing,datv"},
		[2]string{"саму", "ADJF,Apro,Subx femn,sing,accs"},
		[2]string{"самой", "ADJF,Apro,Subx femn,sing,ablt"},
		[2]string{"самой", "ADJF,Apro,Subx femn,sing,loct"},
		[2]string{"само", "ADJF,Apro,Subx neut,sing,nomn"},
		[2]string{"сами", "ADJF,Apro,Subx plur,nomn"},
		[2]string{"самих", "ADJF,Apro,Subx plur,gent"},
		[2]string{"самим", "ADJF,Apro,Subx plur,datv"},
		[2]string{"самими", "ADJF,Apro,Subx plur,ablt"},
	)

	d.AddLexeme("6", "подруга", nounParadigm([12]string{
		"подруга", "подруги", "подруге", "подругу", "подругой", "подруге",
		"подруги", "подруг", "подругам", "подруг", "подругами", "подругах",
	}, "NOUN,anim,femn")...)

	d.AddLexeme("7", "стол", nounParadigm([12]string{
		"стол", "стола", "столу", "стол", "столом", "столе",
		"столы", "столов", "столам", "столы", "столами", "столах",
	}, "NOUN,inan,masc")...)

	d.AddLexeme("8", "новый",
		[2]string{"новый", "ADJF,Qual masc,sing,nomn"},
		[2]string{"нового", "ADJF,Qual masc,sing,gent"},
		[2]string{"новому", "ADJF,Qual masc,sing,datv"},
		[2]string{"нового", "ADJF,Qual anim,masc,sing,accs"},
		[2]string{"новый", "ADJF,Qual inan,masc,sing,accs"},
		[2]string{"новым", "ADJF,Qual masc,sing,ablt"},
		[2]string{"новом", "ADJF,Qual masc,sing,loct"},
		[2]string{"новая", "ADJF,Qual femn,sing,nomn"},
		[2]string{"новой", "ADJF,Qual femn,sing,gent"},
		[2]string{"новой", "ADJF,Qual femn,sing,datv"},
		[2]string{"новую", "ADJF,Qual femn,sing,accs"},
		[2]string{"новой", "ADJF,Qual femn,sing,ablt"},
		[2]string{"новой", "ADJF,Qual femn,sing,loct"},
		[2]string{"новое", "ADJF,Qual neut,sing,nomn"},
		[2]string{"нового", "ADJF,Qual neut,sing,gent"},
		[2]string{"новому", "ADJF,Qual neut,sing,datv"},
		[2]string{"новое", "ADJF,Qual neut,sing,accs"},
		[2]string{"новым", "ADJF,Qual neut,sing,ablt"},
		[2]string{"новом", "ADJF,Qual neut,sing,loct"},
		[2]string{"новые", "ADJF,Qual plur,nomn"},
		[2]string{"новых", "ADJF,Qual plur,gent"},
		[2]string{"новым", "ADJF,Qual plur,datv"},
		[2]string{"новых", "ADJF,Qual anim,plur,accs"},
		[2]string{"новые", "ADJF,Qual inan,plur,accs"},
		[2]string{"новыми", "ADJF,Qual plur,ablt"},
		[2]string{"новых", "ADJF,Qual plur,loct"},
	)

	return d
}
